package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ReferencePrefix starts every booking reference.
const ReferencePrefix = "CT"

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReferenceGenerator builds references from a clock and a random source.
type ReferenceGenerator struct {
	now    func() time.Time
	random func(n int) (string, error)
}

func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{now: time.Now, random: randomBase36}
}

// NewReferenceGeneratorWithClock uses the given clock with the crypto
// random suffix.
func NewReferenceGeneratorWithClock(now func() time.Time) *ReferenceGenerator {
	return &ReferenceGenerator{now: now, random: randomBase36}
}

// Generate returns prefix + last 6 digits of epoch millis + 3 base-36 chars.
// It needs no backend, so it works even when every backend is down.
func (g *ReferenceGenerator) Generate() (string, error) {
	millis := g.now().UnixMilli()
	suffix, err := g.random(3)
	if err != nil {
		return "", fmt.Errorf("booking reference: %w", err)
	}
	return fmt.Sprintf("%s%06d%s", ReferencePrefix, millis%1_000_000, suffix), nil
}

func randomBase36(n int) (string, error) {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(base36)))
	for i := range out {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = base36[v.Int64()]
	}
	return string(out), nil
}
