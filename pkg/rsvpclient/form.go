package rsvpclient

import (
	"context"
	"errors"
	"sync"

	"github.com/akeren/event-rsvp/internal/rsvp"
)

type State int

const (
	Editing State = iota
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is the dismissable banner shown after a submit attempt.
type Notification struct {
	Kind    NotificationKind
	Message string
}

const SuccessMessage = "Thank you! Your RSVP has been recorded."

var ErrSubmitInProgress = errors.New("rsvpclient: a submission is already in flight")

type Meal int

const (
	Veg Meal = iota
	NonVeg
)

// Form is one guest's RSVP form. At most one write is in flight at a time.
type Form struct {
	client    *Client
	validator *rsvp.Validator

	mu           sync.Mutex
	state        State
	name         string
	email        string
	code         string
	veg          rsvp.GuestCounter
	nonVeg       rsvp.GuestCounter
	fieldErrors  []rsvp.FieldError
	guestError   string
	notification *Notification
}

// NewForm checks codes locally when codes is not nil; the server checks them regardless.
func NewForm(client *Client, codes rsvp.CodeChecker) *Form {
	return &Form{client: client, validator: rsvp.NewValidator(codes)}
}

func (f *Form) SetName(v string)  { f.edit(func() { f.name = v }) }
func (f *Form) SetEmail(v string) { f.edit(func() { f.email = v }) }
func (f *Form) SetCode(v string)  { f.edit(func() { f.code = v }) }

func (f *Form) Increment(m Meal) { f.edit(func() { f.counter(m).Increment() }) }

// Decrement never takes a counter below zero.
func (f *Form) Decrement(m Meal) { f.edit(func() { f.counter(m).Decrement() }) }

func (f *Form) Count(m Meal) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter(m).Value()
}

func (f *Form) counter(m Meal) *rsvp.GuestCounter {
	if m == NonVeg {
		return &f.nonVeg
	}
	return &f.veg
}

// edit applies a field change. Editing after a finished submit returns the form to Editing;
// edits during Submitting are still taken but do not change the state.
func (f *Form) edit(apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply()
	if f.state == Success || f.state == Failed {
		f.state = Editing
	}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Draft() rsvp.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft()
}

func (f *Form) draft() rsvp.Draft {
	return rsvp.Draft{
		Name:   f.name,
		Email:  f.email,
		Code:   f.code,
		Veg:    f.veg.Value(),
		NonVeg: f.nonVeg.Value(),
	}
}

// FieldErrors are the inline per-field messages from the last submit attempt.
func (f *Form) FieldErrors() []rsvp.FieldError {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rsvp.FieldError(nil), f.fieldErrors...)
}

// GuestError is the inline zero-guest message, or "".
func (f *Form) GuestError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.guestError
}

func (f *Form) Notification() *Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notification == nil {
		return nil
	}
	n := *f.notification
	return &n
}

func (f *Form) DismissNotification() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notification = nil
}

// Submit validates the form and, when it is valid, sends exactly one write request.
// Validation failures return a *rsvp.ValidationError or rsvp.ErrNoGuests without touching the
// network. A failed request returns its error and leaves the form in Failed with an error
// notification; success resets every field and counter.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}

	f.fieldErrors = nil
	f.guestError = ""
	f.notification = nil
	f.state = Editing

	draft := rsvp.Normalize(f.draft())
	if err := f.validator.Validate(draft); err != nil {
		var verr *rsvp.ValidationError
		switch {
		case errors.As(err, &verr):
			f.fieldErrors = verr.Fields
		case errors.Is(err, rsvp.ErrNoGuests):
			f.guestError = rsvp.NoGuestsMessage
		}
		f.mu.Unlock()
		return err
	}

	f.state = Submitting
	f.mu.Unlock()

	_, err := f.client.CreateSubmission(ctx, draft)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = Failed
		f.notification = &Notification{Kind: NotifyError, Message: GenericSubmitError}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			f.notification.Message = apiErr.Message
			f.fieldErrors = apiErr.Fields
		}
		return err
	}

	f.state = Success
	f.notification = &Notification{Kind: NotifySuccess, Message: SuccessMessage}
	f.name, f.email, f.code = "", "", ""
	f.veg.Reset()
	f.nonVeg.Reset()
	return nil
}
