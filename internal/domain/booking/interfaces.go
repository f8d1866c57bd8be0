package booking

import (
	"context"
	"time"
)

// PrimaryStore is the durable system of record for bookings.
type PrimaryStore interface {
	CreateBooking(ctx context.Context, b *Booking) (id string, err error)
}

type NotifyResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Notifier forwards a booking to the automation webhook. Best effort.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (NotifyResult, error)
}

// FallbackEntry is a booking parked locally after the primary write failed.
type FallbackEntry struct {
	BookingReference string    `json:"booking_reference"`
	Booking          Booking   `json:"booking"`
	Status           Status    `json:"status"`
	FailureReason    string    `json:"failure_reason"`
	CachedAt         time.Time `json:"cached_at"`
}

// FallbackCache stores bookings that never reached the primary store.
type FallbackCache interface {
	Put(ctx context.Context, e FallbackEntry) error
	Get(ctx context.Context, reference string) (*FallbackEntry, error)
	List(ctx context.Context, status Status, limit int) ([]FallbackEntry, error)
}
