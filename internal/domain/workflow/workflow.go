package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"catering/internal/domain/booking"
	"catering/internal/domain/pricing"
	"catering/internal/domain/selection"
	"catering/internal/domain/submission"
	"catering/internal/domain/validation"
	"catering/internal/identity"
)

type Step string

const (
	StepConfiguring Step = "configuring"
	StepAuthGate    Step = "auth_gate"
	StepFormFilling Step = "form_filling"
	StepConfirmed   Step = "confirmed"
)

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrNotSignedIn       = errors.New("sign in to continue")
)

type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*identity.User, error)
}

type Submitter interface {
	Submit(ctx context.Context, req submission.Request) (*submission.Attempt, error)
}

type Validator interface {
	ValidateSelection(s selection.State) validation.Errors
}

type Config struct {
	Store          *selection.Store
	Persistence    *selection.Persistence
	Validator      Validator
	Fees           pricing.FeeResolver
	Identity       IdentityProvider
	Submitter      Submitter
	RequireAccount bool
}

// View is everything a client needs to render the current step.
type View struct {
	Step        Step              `json:"step"`
	Selection   selection.State   `json:"selection"`
	Quote       pricing.Quote     `json:"quote"`
	Errors      validation.Errors `json:"errors"`
	CanContinue bool              `json:"can_continue"`
	Form        booking.Form      `json:"form"`
	Submission  *SubmissionView   `json:"submission,omitempty"`
}

type SubmissionView struct {
	Outcome   submission.Outcome      `json:"outcome"`
	Reference string                  `json:"booking_reference"`
	BookingID string                  `json:"booking_id,omitempty"`
	Message   string                  `json:"message"`
	Payment   *booking.PaymentRequest `json:"payment,omitempty"`
}

// Workflow owns one customer's selection store and moves it through the
// booking steps. Not safe for concurrent use.
type Workflow struct {
	store          *selection.Store
	persistence    *selection.Persistence
	validator      Validator
	fees           pricing.FeeResolver
	identity       IdentityProvider
	submitter      Submitter
	requireAccount bool

	step     Step
	form     booking.Form
	user     *identity.User
	attempt  *submission.Attempt
	watchers []func(View)
}

func New(cfg Config) *Workflow {
	w := &Workflow{
		store:          cfg.Store,
		persistence:    cfg.Persistence,
		validator:      cfg.Validator,
		fees:           cfg.Fees,
		identity:       cfg.Identity,
		submitter:      cfg.Submitter,
		requireAccount: cfg.RequireAccount,
		step:           StepConfiguring,
	}
	w.store.Subscribe(func(selection.State) { w.emit() })
	return w
}

// Watch registers a callback that receives a fresh view after every
// selection mutation and step change.
func (w *Workflow) Watch(fn func(View)) {
	w.watchers = append(w.watchers, fn)
}

func (w *Workflow) emit() {
	if len(w.watchers) == 0 {
		return
	}
	v := w.View()
	for _, fn := range w.watchers {
		fn(v)
	}
}

func (w *Workflow) Step() Step { return w.step }

// Restore reloads the saved selection and form draft. ok is false when
// nothing was saved.
func (w *Workflow) Restore(ctx context.Context) (bool, error) {
	st, ok, err := w.persistence.Load(ctx)
	if err != nil || !ok {
		return false, err
	}
	if _, err := w.persistence.LoadDraft(ctx, &w.form); err != nil {
		return false, err
	}
	w.store.Replace(st)
	return true, nil
}

func (w *Workflow) View() View {
	st := w.store.State()
	errs := w.validator.ValidateSelection(st)
	v := View{
		Step:        w.step,
		Selection:   st,
		Quote:       pricing.Price(st, w.store.Catalog(), w.fees),
		Errors:      errs,
		CanContinue: errs.Empty(),
		Form:        w.form,
	}
	if w.attempt != nil {
		b := w.attempt.Booking()
		sv := &SubmissionView{
			Outcome:   w.attempt.Outcome(),
			Reference: w.attempt.Reference,
			BookingID: b.ID,
			Message:   w.attempt.Message(),
		}
		if sv.Outcome.Success() {
			p := b.PaymentRequest()
			sv.Payment = &p
		}
		v.Submission = sv
	}
	return v
}

// Mutate applies fn to the selection and saves the result. Only allowed
// while configuring. When fn fails the selection is rolled back and
// nothing is saved.
func (w *Workflow) Mutate(ctx context.Context, fn func(*selection.Store) error) error {
	if w.step != StepConfiguring {
		return fmt.Errorf("%w: cannot change the menu in step %s", ErrInvalidTransition, w.step)
	}
	before := w.store.State()
	if err := fn(w.store); err != nil {
		w.store.Replace(before)
		return err
	}
	return w.persistence.Save(ctx, w.store.State())
}

// Continue leaves configuring once the selection validates.
func (w *Workflow) Continue(ctx context.Context) error {
	if w.step != StepConfiguring {
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, w.step)
	}
	if err := w.validator.ValidateSelection(w.store.State()).Err(); err != nil {
		return err
	}

	if !w.requireAccount {
		w.setStep(StepFormFilling)
		return nil
	}
	w.setStep(StepAuthGate)
	return w.checkIdentity(ctx)
}

// SignedIn re-polls the identity provider from the auth gate.
func (w *Workflow) SignedIn(ctx context.Context) error {
	if w.step != StepAuthGate {
		return fmt.Errorf("%w: sign-in outside the auth gate", ErrInvalidTransition)
	}
	if err := w.checkIdentity(ctx); err != nil {
		return err
	}
	if w.step == StepAuthGate {
		return ErrNotSignedIn
	}
	return nil
}

func (w *Workflow) checkIdentity(ctx context.Context) error {
	user, err := w.identity.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("identity check: %w", err)
	}
	if user == nil {
		return nil
	}
	w.user = user
	w.setStep(StepFormFilling)
	return nil
}

// Back returns to configuring with the selection intact.
func (w *Workflow) Back() error {
	switch w.step {
	case StepAuthGate, StepFormFilling:
		w.setStep(StepConfiguring)
		return nil
	default:
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, w.step)
	}
}

// UpdateForm replaces the form draft and saves it.
func (w *Workflow) UpdateForm(ctx context.Context, f booking.Form) error {
	if w.step != StepFormFilling {
		return fmt.Errorf("%w: form edits outside form filling", ErrInvalidTransition)
	}
	w.form = f
	return w.persistence.SaveDraft(ctx, f)
}

// Submit hands the booking to the coordinator. Success confirms the
// workflow and clears the saved selection; a local-only failure keeps the
// customer on the form with the message.
func (w *Workflow) Submit(ctx context.Context) (*submission.Attempt, error) {
	if w.step != StepFormFilling {
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, w.step)
	}

	req := submission.Request{State: w.store.State(), Form: w.form}
	if w.user != nil {
		req.UserID = w.user.ID
	}

	a, err := w.submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	w.attempt = a

	if a.Outcome() == submission.OutcomeFailedLocalOnly {
		w.emit()
		return a, nil
	}

	w.step = StepConfirmed
	w.form = booking.Form{}
	w.store.Reset()
	if err := w.persistence.Clear(ctx); err != nil {
		log.Printf("workflow_clear namespace=%s error=%q", w.persistence.Namespace(), err.Error())
	}
	return a, nil
}

// Reset discards the selection and draft and starts over.
func (w *Workflow) Reset(ctx context.Context) error {
	w.form = booking.Form{}
	w.attempt = nil
	w.step = StepConfiguring
	w.store.Reset()
	return w.persistence.Clear(ctx)
}

func (w *Workflow) setStep(s Step) {
	w.step = s
	w.emit()
}
