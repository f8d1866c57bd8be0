package booking

import "strings"

// ReferralSources are the answers offered for "how did you hear about us".
var ReferralSources = []string{"google", "instagram", "facebook", "friend", "wedding_fair", "other"}

// Form is the contact, venue and billing part of a booking.
type Form struct {
	Name               string `json:"name" validate:"required,max=120"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,e164"`
	EventDate          string `json:"event_date" validate:"required,datetime=2006-01-02"`
	VenueAddress       string `json:"venue_address" validate:"required,max=300"`
	BillingSameAsVenue bool   `json:"billing_same_as_venue"`
	BillingAddress     string `json:"billing_address" validate:"required_unless=BillingSameAsVenue true,max=300"`
	ReferralSource     string `json:"referral_source" validate:"omitempty,oneof=google instagram facebook friend wedding_fair other"`
	Notes              string `json:"notes" validate:"max=2000"`
}

// DefaultCountryCode replaces the trunk prefix of local phone numbers.
const DefaultCountryCode = "+27"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

// normalizePhone strips separators and rewrites local (0...) and 00-prefixed
// numbers to E.164, so "082 123 4567" becomes "+27821234567".
func normalizePhone(raw string) string {
	p := phoneSeparators.Replace(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(p, "00"):
		return "+" + p[2:]
	case strings.HasPrefix(p, "0"):
		return DefaultCountryCode + p[1:]
	}
	return p
}

// Normalized trims every text field and resolves the billing address.
func (f Form) Normalized() Form {
	out := Form{
		Name:               strings.TrimSpace(f.Name),
		Email:              strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:              normalizePhone(f.Phone),
		EventDate:          strings.TrimSpace(f.EventDate),
		VenueAddress:       strings.TrimSpace(f.VenueAddress),
		BillingSameAsVenue: f.BillingSameAsVenue,
		BillingAddress:     strings.TrimSpace(f.BillingAddress),
		ReferralSource:     strings.TrimSpace(f.ReferralSource),
		Notes:              strings.TrimSpace(f.Notes),
	}
	if out.BillingSameAsVenue {
		out.BillingAddress = out.VenueAddress
	}
	return out
}
