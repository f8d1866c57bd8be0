package booking

import "time"

type Status string

const (
	StatusPendingPayment    Status = "pending_payment"
	StatusPendingSubmission Status = "pending_submission"
	StatusConfirmed         Status = "confirmed"
	StatusCancelled         Status = "cancelled"
	StatusCompleted         Status = "completed"
)

// SnapshotExtra is an extra as it was priced when the booking was made.
type SnapshotExtra struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	PricingUnit string `json:"pricing_unit"`
	PerPerson   int    `json:"per_person"`
}

// MenuSnapshot is the selection resolved to display names, so later
// catalog edits never change a historical booking.
type MenuSnapshot struct {
	PackageID      string          `json:"package_id"`
	PackageName    string          `json:"package_name"`
	EventType      string          `json:"event_type,omitempty"`
	Season         string          `json:"season,omitempty"`
	NumGuests      int             `json:"num_guests"`
	IncludeCutlery bool            `json:"include_cutlery"`
	Starters       []string        `json:"starters,omitempty"`
	Sides          []string        `json:"sides,omitempty"`
	Desserts       []string        `json:"desserts,omitempty"`
	Extras         []SnapshotExtra `json:"extras,omitempty"`
	ExtraSaladType string          `json:"extra_salad_type,omitempty"`
	PostalCode     string          `json:"postal_code"`
	TravelArea     string          `json:"travel_area,omitempty"`
}

// Booking is frozen at submission time. JSON names are the wire contract
// with the primary store and the notifier.
type Booking struct {
	ID               string       `json:"id,omitempty"`
	BookingReference string       `json:"booking_reference"`
	UserID           string       `json:"user_id,omitempty"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	EventDate        string       `json:"event_date"`
	VenueAddress     string       `json:"venue_address"`
	BillingAddress   string       `json:"billing_address"`
	ReferralSource   string       `json:"referral_source,omitempty"`
	Notes            string       `json:"notes,omitempty"`
	MenuSnapshot     MenuSnapshot `json:"menu_snapshot"`
	PricePerPerson   int          `json:"price_per_person"`
	MenuSubtotal     int          `json:"menu_subtotal"`
	TravelFee        int          `json:"travel_fee"`
	TotalPrice       int          `json:"total_price"`
	DiscountApplied  bool         `json:"discount_applied"`
	Status           Status       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
}

// PaymentRequest is the pair handed to the payment gateway.
type PaymentRequest struct {
	Amount    int    `json:"amount"`
	Reference string `json:"reference"`
}

func (b Booking) PaymentRequest() PaymentRequest {
	return PaymentRequest{Amount: b.TotalPrice, Reference: b.BookingReference}
}

// Notification is what the secondary notifier receives.
type Notification struct {
	Booking
}

func NewNotification(b Booking) Notification {
	return Notification{Booking: b}
}
