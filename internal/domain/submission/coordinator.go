package submission

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"catering/internal/domain/booking"
	"catering/internal/domain/catalog"
	"catering/internal/domain/pricing"
	"catering/internal/domain/selection"
	"catering/internal/domain/travel"
	"catering/internal/domain/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrSubmissionInProgress = errors.New("a submission for this selection is already in progress")

const MsgTotalOutOfRange = "This event is too large to quote online. Please contact us"

const defaultNotifyTimeout = 10 * time.Second

// Validator gates submission on the full booking form.
type Validator interface {
	ValidateBooking(s selection.State, f booking.Form) validation.Errors
}

// Resolver is the travel lookup used for fees and the snapshot area name.
type Resolver interface {
	Resolve(postalCode string) (travel.Area, bool)
	Fee(postalCode string) *int
}

type Request struct {
	State  selection.State
	Form   booking.Form
	UserID string
}

type Deps struct {
	Primary       booking.PrimaryStore
	Notifier      booking.Notifier
	Fallback      booking.FallbackCache
	Validator     Validator
	Catalog       *catalog.Catalog
	Resolver      Resolver
	References    *booking.ReferenceGenerator
	NotifyTimeout time.Duration
}

// Coordinator drives one booking through the primary store, the notifier
// and, when the primary write fails, the local fallback cache.
type Coordinator struct {
	primary       booking.PrimaryStore
	notifier      booking.Notifier
	fallback      booking.FallbackCache
	validator     Validator
	catalog       *catalog.Catalog
	resolver      Resolver
	refs          *booking.ReferenceGenerator
	notifyTimeout time.Duration
	now           func() time.Time
	tracer        trace.Tracer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCoordinator(d Deps) *Coordinator {
	refs := d.References
	if refs == nil {
		refs = booking.NewReferenceGenerator()
	}
	timeout := d.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &Coordinator{
		primary:       d.Primary,
		notifier:      d.Notifier,
		fallback:      d.Fallback,
		validator:     d.Validator,
		catalog:       d.Catalog,
		resolver:      d.Resolver,
		refs:          refs,
		notifyTimeout: timeout,
		now:           time.Now,
		tracer:        otel.Tracer("catering/submission"),
		inFlight:      make(map[string]struct{}),
	}
}

// Submit validates the request and runs one attempt with a fresh booking
// reference. Validation failures and duplicate in-flight submits return an
// error; every started attempt is returned with its outcome instead.
func (c *Coordinator) Submit(ctx context.Context, req Request) (*Attempt, error) {
	if errs := c.validator.ValidateBooking(req.State, req.Form); !errs.Empty() {
		return nil, errs.Err()
	}
	quote := pricing.Price(req.State, c.catalog, c.resolver)
	if quote.OutOfRange {
		return nil, validation.Errors{validation.FieldNumGuests: MsgTotalOutOfRange}.Err()
	}

	key, err := fingerprint(req.State, req.Form)
	if err != nil {
		return nil, err
	}
	if !c.acquire(key) {
		return nil, ErrSubmissionInProgress
	}
	defer c.release(key)

	ref, err := c.refs.Generate()
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "booking.submit", trace.WithAttributes(
		attribute.String("booking.reference", ref),
		attribute.String("booking.package", req.State.SelectedPackage),
		attribute.Int("booking.guests", req.State.NumGuests),
	))
	defer span.End()

	b := buildBooking(req.State, req.Form, c.catalog, c.resolver, quote, ref, req.UserID, c.now())

	a := newAttempt(ref)
	a.setOutcome(OutcomeSubmitting, "")

	id, err := c.primary.CreateBooking(ctx, &b)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary write failed")
		c.parkInFallback(ctx, a, b, err)
		span.SetAttributes(attribute.String("booking.outcome", string(a.Outcome())))
		return a, nil
	}

	b.ID = id
	a.booking = b
	a.setOutcome(OutcomeSucceeded, successMessage(ref))
	span.SetAttributes(attribute.String("booking.id", id), attribute.String("booking.outcome", string(OutcomeSucceeded)))

	log.Printf("booking_submit reference=%s booking_id=%s outcome=%s total=%d", ref, id, OutcomeSucceeded, b.TotalPrice)

	go c.notify(trace.ContextWithSpanContext(context.Background(), span.SpanContext()), a, b)

	return a, nil
}

func (c *Coordinator) parkInFallback(ctx context.Context, a *Attempt, b booking.Booking, cause error) {
	b.Status = booking.StatusPendingSubmission
	a.booking = b
	a.err = fmt.Errorf("%w: %v", booking.ErrPrimaryWriteFailed, cause)

	entry := booking.FallbackEntry{
		BookingReference: b.BookingReference,
		Booking:          b,
		Status:           booking.StatusPendingSubmission,
		FailureReason:    cause.Error(),
		CachedAt:         c.now().UTC(),
	}

	if c.fallback == nil {
		c.logLostBooking(entry, errors.New("no fallback cache configured"))
	} else if err := c.fallback.Put(ctx, entry); err != nil {
		c.logLostBooking(entry, err)
	}

	log.Printf("booking_submit reference=%s outcome=%s error=%q", b.BookingReference, OutcomeFailedLocalOnly, cause.Error())

	a.setOutcome(OutcomeFailedLocalOnly, failedMessage(b.BookingReference))
	a.finishNotify()
}

// logLostBooking writes the whole payload to the log when even the
// fallback cache is unavailable.
func (c *Coordinator) logLostBooking(entry booking.FallbackEntry, err error) {
	payload, _ := json.Marshal(entry)
	log.Printf("booking_fallback_failed reference=%s error=%q payload=%s", entry.BookingReference, err.Error(), payload)
}

func (c *Coordinator) notify(parent context.Context, a *Attempt, b booking.Booking) {
	defer a.finishNotify()
	if c.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, c.notifyTimeout)
	defer cancel()
	ctx, span := c.tracer.Start(ctx, "booking.notify")
	defer span.End()

	res, err := c.notifier.Notify(ctx, booking.NewNotification(b))
	if err == nil && !res.Success {
		err = errors.New(res.Error)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "notify failed")
		log.Printf("booking_notify reference=%s booking_id=%s error=%q", b.BookingReference, b.ID, fmt.Errorf("%w: %v", booking.ErrSecondaryNotifyFailed, err).Error())
		a.setOutcome(OutcomeDegradedSucceeded, degradedMessage(b.BookingReference))
		return
	}
	log.Printf("booking_notify reference=%s booking_id=%s ok=true", b.BookingReference, b.ID)
}

func (c *Coordinator) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[key]; busy {
		return false
	}
	c.inFlight[key] = struct{}{}
	return true
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, key)
}

func fingerprint(s selection.State, f booking.Form) (string, error) {
	b, err := json.Marshal(struct {
		State selection.State `json:"state"`
		Form  booking.Form    `json:"form"`
	}{s, f})
	if err != nil {
		return "", fmt.Errorf("fingerprint submission: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
