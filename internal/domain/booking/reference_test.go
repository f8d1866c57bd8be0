package booking

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^CT\d{6}[0-9A-Z]{3}$`)

func TestReferenceGenerator_Format(t *testing.T) {
	g := &ReferenceGenerator{
		now:    func() time.Time { return time.UnixMilli(1760520123456) },
		random: func(int) (string, error) { return "K9Z", nil },
	}

	ref, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "CT123456K9Z", ref)
}

func TestReferenceGenerator_PadsShortTimestamps(t *testing.T) {
	g := &ReferenceGenerator{
		now:    func() time.Time { return time.UnixMilli(1760520000042) },
		random: func(int) (string, error) { return "AAA", nil },
	}

	ref, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "CT000042AAA", ref)
}

func TestReferenceGenerator_RealRandom(t *testing.T) {
	g := NewReferenceGenerator()
	for i := 0; i < 50; i++ {
		ref, err := g.Generate()
		require.NoError(t, err)
		assert.Regexp(t, referencePattern, ref)
	}
}

func TestReferenceGenerator_RandomFailure(t *testing.T) {
	g := &ReferenceGenerator{
		now:    time.Now,
		random: func(int) (string, error) { return "", errors.New("entropy exhausted") },
	}

	_, err := g.Generate()
	assert.Error(t, err)
}

func TestBooking_PaymentRequest(t *testing.T) {
	b := Booking{BookingReference: "CT123456ABC", TotalPrice: 16300}
	assert.Equal(t, PaymentRequest{Amount: 16300, Reference: "CT123456ABC"}, b.PaymentRequest())
}

func TestForm_NormalizedCopiesVenueToBilling(t *testing.T) {
	f := Form{
		Email:              " A@B.COM ",
		Phone:              "+27 82 000 0000",
		VenueAddress:       " 1 Main Rd ",
		BillingAddress:     "ignored",
		BillingSameAsVenue: true,
	}.Normalized()

	assert.Equal(t, "a@b.com", f.Email)
	assert.Equal(t, "+27820000000", f.Phone)
	assert.Equal(t, "1 Main Rd", f.BillingAddress)
}

func TestForm_NormalizedPhone(t *testing.T) {
	cases := map[string]string{
		"082 123 4567":     "+27821234567",
		"(021) 555-0100":   "+27215550100",
		"0027 82 123 4567": "+27821234567",
		"+27 82 123 4567":  "+27821234567",
		"+44 20 7946 0958": "+442079460958",
		"":                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Form{Phone: in}.Normalized().Phone, in)
	}
}
