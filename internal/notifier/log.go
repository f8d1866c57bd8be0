package notifier

import (
	"context"
	"log"

	"catering/internal/domain/booking"
)

// Log only writes the booking to the log. Used when no automation
// endpoint is configured.
type Log struct{}

func (Log) Notify(_ context.Context, n booking.Notification) (booking.NotifyResult, error) {
	log.Printf("booking_notify_log reference=%s booking_id=%s total=%d email=%s", n.BookingReference, n.ID, n.TotalPrice, n.Email)
	return booking.NotifyResult{Success: true}, nil
}
