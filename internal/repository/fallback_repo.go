package repository

import (
	"context"
	"errors"
	"time"

	"catering/internal/domain/booking"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FallbackRepository keeps bookings the primary store never received.
// It lives in the local database, not the primary one.
type FallbackRepository struct {
	db *gorm.DB
}

func NewFallbackRepository(db *gorm.DB) *FallbackRepository {
	return &FallbackRepository{db: db}
}

type fallbackModel struct {
	BookingReference string          `gorm:"column:booking_reference;primaryKey;size:16"`
	Booking          booking.Booking `gorm:"column:booking;serializer:json"`
	Status           string          `gorm:"column:status;size:32;index"`
	FailureReason    string          `gorm:"column:failure_reason"`
	CachedAt         time.Time       `gorm:"column:cached_at;index"`
}

func (fallbackModel) TableName() string { return "fallback_bookings" }

// Put stores e, replacing any earlier entry with the same reference.
func (r *FallbackRepository) Put(ctx context.Context, e booking.FallbackEntry) error {
	m := fallbackModel{
		BookingReference: e.BookingReference,
		Booking:          e.Booking,
		Status:           string(e.Status),
		FailureReason:    e.FailureReason,
		CachedAt:         e.CachedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&m).Error
}

func (r *FallbackRepository) Get(ctx context.Context, reference string) (*booking.FallbackEntry, error) {
	var m fallbackModel
	err := r.db.WithContext(ctx).Where("booking_reference = ?", reference).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, booking.ErrFallbackEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	e := toFallbackEntry(m)
	return &e, nil
}

// List returns the newest entries first. An empty status lists all.
func (r *FallbackRepository) List(ctx context.Context, status booking.Status, limit int) ([]booking.FallbackEntry, error) {
	q := r.db.WithContext(ctx).Order("cached_at DESC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []fallbackModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]booking.FallbackEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, toFallbackEntry(m))
	}
	return out, nil
}

func toFallbackEntry(m fallbackModel) booking.FallbackEntry {
	return booking.FallbackEntry{
		BookingReference: m.BookingReference,
		Booking:          m.Booking,
		Status:           booking.Status(m.Status),
		FailureReason:    m.FailureReason,
		CachedAt:         m.CachedAt,
	}
}
