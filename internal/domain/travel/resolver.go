package travel

import (
	"strconv"
	"strings"
	"sync"
)

type Area struct {
	Name string `json:"area_name"`
	Fee  int    `json:"fee"`
}

// Range maps an inclusive block of postal codes to a delivery area.
type Range struct {
	From int
	To   int
	Area Area
}

var DefaultRanges = []Range{
	{From: 8000, To: 8099, Area: Area{Name: "City Bowl & Atlantic Seaboard", Fee: 300}},
	{From: 7400, To: 7499, Area: Area{Name: "Northern Suburbs", Fee: 400}},
	{From: 7500, To: 7599, Area: Area{Name: "Bellville & Durbanville", Fee: 450}},
	{From: 7600, To: 7699, Area: Area{Name: "Stellenbosch & Winelands", Fee: 600}},
	{From: 7700, To: 7799, Area: Area{Name: "Southern Suburbs", Fee: 350}},
	{From: 7800, To: 7899, Area: Area{Name: "Constantia & South Peninsula", Fee: 450}},
	{From: 7100, To: 7199, Area: Area{Name: "Helderberg", Fee: 650}},
	{From: 7200, To: 7299, Area: Area{Name: "Overberg", Fee: 900}},
}

type result struct {
	area Area
	ok   bool
}

// Resolver looks postal codes up in a static table. Only well-shaped codes
// are memoized, so the memo holds at most 10,000 entries.
type Resolver struct {
	ranges []Range

	mu   sync.RWMutex
	memo map[string]result
}

func NewResolver(ranges []Range) *Resolver {
	return &Resolver{
		ranges: append([]Range(nil), ranges...),
		memo:   make(map[string]result),
	}
}

func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultRanges)
}

// Normalize trims whitespace; the result is the memo key.
func Normalize(postalCode string) string {
	return strings.TrimSpace(postalCode)
}

// ValidShape reports whether the code is exactly four digits.
func ValidShape(postalCode string) bool {
	if len(postalCode) != 4 {
		return false
	}
	for _, r := range postalCode {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (r *Resolver) Resolve(postalCode string) (Area, bool) {
	code := Normalize(postalCode)
	if !ValidShape(code) {
		return Area{}, false
	}

	r.mu.RLock()
	res, hit := r.memo[code]
	r.mu.RUnlock()
	if hit {
		return res.area, res.ok
	}

	res = r.lookup(code)

	r.mu.Lock()
	r.memo[code] = res
	r.mu.Unlock()

	return res.area, res.ok
}

func (r *Resolver) lookup(code string) result {
	n, err := strconv.Atoi(code)
	if err != nil {
		return result{}
	}
	for _, rg := range r.ranges {
		if n >= rg.From && n <= rg.To {
			return result{area: rg.Area, ok: true}
		}
	}
	return result{}
}

// Fee returns the travel fee or nil when the code does not resolve.
func (r *Resolver) Fee(postalCode string) *int {
	area, ok := r.Resolve(postalCode)
	if !ok {
		return nil
	}
	fee := area.Fee
	return &fee
}
