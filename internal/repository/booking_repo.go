package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catering/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// BookingRepository is the primary booking store.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID               string               `gorm:"column:id;primaryKey;size:36"`
	BookingReference string               `gorm:"column:booking_reference;size:16;uniqueIndex:idx_bookings_reference"`
	UserID           *string              `gorm:"column:user_id;index"`
	Name             string               `gorm:"column:name"`
	Email            string               `gorm:"column:email"`
	Phone            string               `gorm:"column:phone"`
	EventDate        string               `gorm:"column:event_date;size:10"`
	VenueAddress     string               `gorm:"column:venue_address"`
	BillingAddress   string               `gorm:"column:billing_address"`
	ReferralSource   *string              `gorm:"column:referral_source"`
	Notes            *string              `gorm:"column:notes"`
	MenuSnapshot     booking.MenuSnapshot `gorm:"column:menu_snapshot;serializer:json"`
	PricePerPerson   int                  `gorm:"column:price_per_person"`
	MenuSubtotal     int                  `gorm:"column:menu_subtotal"`
	TravelFee        int                  `gorm:"column:travel_fee"`
	TotalPrice       int                  `gorm:"column:total_price"`
	DiscountApplied  bool                 `gorm:"column:discount_applied"`
	Status           string               `gorm:"column:status;size:32"`
	CreatedAt        time.Time            `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toBookingModel(b *booking.Booking) bookingModel {
	return bookingModel{
		ID:               b.ID,
		BookingReference: b.BookingReference,
		UserID:           optional(b.UserID),
		Name:             b.Name,
		Email:            b.Email,
		Phone:            b.Phone,
		EventDate:        b.EventDate,
		VenueAddress:     b.VenueAddress,
		BillingAddress:   b.BillingAddress,
		ReferralSource:   optional(b.ReferralSource),
		Notes:            optional(b.Notes),
		MenuSnapshot:     b.MenuSnapshot,
		PricePerPerson:   b.PricePerPerson,
		MenuSubtotal:     b.MenuSubtotal,
		TravelFee:        b.TravelFee,
		TotalPrice:       b.TotalPrice,
		DiscountApplied:  b.DiscountApplied,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
	}
}

func toDomainBooking(m bookingModel) *booking.Booking {
	return &booking.Booking{
		ID:               m.ID,
		BookingReference: m.BookingReference,
		UserID:           deref(m.UserID),
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		EventDate:        m.EventDate,
		VenueAddress:     m.VenueAddress,
		BillingAddress:   m.BillingAddress,
		ReferralSource:   deref(m.ReferralSource),
		Notes:            deref(m.Notes),
		MenuSnapshot:     m.MenuSnapshot,
		PricePerPerson:   m.PricePerPerson,
		MenuSubtotal:     m.MenuSubtotal,
		TravelFee:        m.TravelFee,
		TotalPrice:       m.TotalPrice,
		DiscountApplied:  m.DiscountApplied,
		Status:           booking.Status(m.Status),
		CreatedAt:        m.CreatedAt,
	}
}

// CreateBooking inserts b and returns the generated id.
func (r *BookingRepository) CreateBooking(ctx context.Context, b *booking.Booking) (string, error) {
	m := toBookingModel(b)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return "", booking.ErrDuplicateReference
		}
		return "", err
	}
	return m.ID, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).Where("booking_reference = ?", reference).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// ParkedBooking is a fallback entry annotated with whether the primary
// store has since received the same reference.
type ParkedBooking struct {
	booking.FallbackEntry
	InPrimary bool   `json:"in_primary"`
	PrimaryID string `json:"primary_id,omitempty"`
}

// MatchParked looks every parked entry up in the primary store so support
// does not re-enter a booking twice.
func (r *BookingRepository) MatchParked(ctx context.Context, entries []booking.FallbackEntry) ([]ParkedBooking, error) {
	out := make([]ParkedBooking, 0, len(entries))
	for _, e := range entries {
		p := ParkedBooking{FallbackEntry: e}
		b, err := r.GetByReference(ctx, e.BookingReference)
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
		case err != nil:
			return nil, fmt.Errorf("match %s: %w", e.BookingReference, err)
		default:
			p.InPrimary = true
			p.PrimaryID = b.ID
		}
		out = append(out, p)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
