package submission

import (
	"context"
	"fmt"
	"sync"

	"catering/internal/domain/booking"
)

type Outcome string

const (
	OutcomeIdle              Outcome = "idle"
	OutcomeSubmitting        Outcome = "submitting"
	OutcomeSucceeded         Outcome = "succeeded"
	OutcomeDegradedSucceeded Outcome = "degraded_succeeded"
	OutcomeFailedLocalOnly   Outcome = "failed_local_only"
)

// Success reports whether the booking reached the primary store.
func (o Outcome) Success() bool {
	return o == OutcomeSucceeded || o == OutcomeDegradedSucceeded
}

func successMessage(ref string) string {
	return fmt.Sprintf("Thank you! Your booking has been received. Your reference is %s.", ref)
}

func degradedMessage(ref string) string {
	return successMessage(ref) + " Our confirmation to the team may be slightly delayed."
}

func failedMessage(ref string) string {
	return fmt.Sprintf("We could not complete your booking right now. Your details are saved under reference %s. Please try again, or contact us and quote this reference.", ref)
}

// Attempt is one submission. Its outcome can still move from succeeded to
// degraded_succeeded while the notifier runs.
type Attempt struct {
	Reference string

	mu      sync.RWMutex
	outcome Outcome
	message string
	booking booking.Booking
	err     error

	once       sync.Once
	notifyDone chan struct{}
}

func newAttempt(ref string) *Attempt {
	return &Attempt{
		Reference:  ref,
		outcome:    OutcomeIdle,
		notifyDone: make(chan struct{}),
	}
}

func (a *Attempt) setOutcome(o Outcome, msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcome = o
	a.message = msg
}

func (a *Attempt) finishNotify() {
	a.once.Do(func() { close(a.notifyDone) })
}

func (a *Attempt) Outcome() Outcome {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.outcome
}

func (a *Attempt) Message() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.message
}

// Booking returns the frozen booking; ID is set only on success.
func (a *Attempt) Booking() booking.Booking {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.booking
}

// Err is the primary write failure for failed_local_only attempts.
func (a *Attempt) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Done is closed once the notifier has finished, or right away when it
// was never called.
func (a *Attempt) Done() <-chan struct{} {
	return a.notifyDone
}

// Wait blocks until the notifier is done or ctx ends, then returns the
// outcome at that moment.
func (a *Attempt) Wait(ctx context.Context) Outcome {
	select {
	case <-a.notifyDone:
	case <-ctx.Done():
	}
	return a.Outcome()
}
