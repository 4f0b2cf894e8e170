// Package crud ties one collection's gateway, list store and form
// controller into the submit/delete workflows behind the console's
// dialogs. A generation counter guards every network round trip: when
// the dialog is closed or resubmitted before a response lands, the
// stale response is discarded instead of mutating state.
package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/liststate"
)

// Phase is the submission lifecycle. Submit and Delete refuse to start
// while a prior call is in flight.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
)

var (
	// ErrSubmitInFlight is returned when a submission starts while
	// another is pending.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrValidationFailed is returned when the draft fails validation;
	// the field messages live on the form controller.
	ErrValidationFailed = errors.New("draft failed validation")
	// ErrNoDialog is returned when Submit is called with no open dialog.
	ErrNoDialog = errors.New("no dialog is open")
)

// API is the slice of the collection gateway the orchestrator drives.
type API[E any] interface {
	Create(ctx context.Context, payload any) (*E, error)
	Update(ctx context.Context, id string, payload any) (*E, error)
	Delete(ctx context.Context, id string) error
}

// Notifier surfaces outcome toasts to the operator.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Confirmer asks the operator to confirm a destructive action.
type Confirmer func(message string) bool

// Messages are the collection-specific notification strings.
type Messages struct {
	Created       string
	Updated       string
	Deleted       string
	CreateFailed  string
	UpdateFailed  string
	DeleteFailed  string
	ConfirmDelete string
}

// Orchestrator coordinates one collection's dialog workflow. E is the
// record type, D the form draft, R the rule reference context.
type Orchestrator[E, D, R any] struct {
	mu         sync.Mutex
	api        API[E]
	store      *liststate.Store[E]
	form       *forms.Controller[D, R]
	notifier   Notifier
	messages   Messages
	phase      Phase
	dialogOpen bool
	editingID  string
	generation uint64
}

func New[E, D, R any](
	api API[E],
	store *liststate.Store[E],
	form *forms.Controller[D, R],
	notifier Notifier,
	messages Messages,
) (*Orchestrator[E, D, R], error) {
	if api == nil {
		return nil, fmt.Errorf("collection API is required")
	}
	if store == nil {
		return nil, fmt.Errorf("list store is required")
	}
	if form == nil {
		return nil, fmt.Errorf("form controller is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &Orchestrator[E, D, R]{
		api:      api,
		store:    store,
		form:     form,
		notifier: notifier,
		messages: messages,
		phase:    PhaseIdle,
	}, nil
}

// OpenCreate opens the create dialog with an initial draft.
func (o *Orchestrator[E, D, R]) OpenCreate(draft D) {
	o.mu.Lock()
	o.dialogOpen = true
	o.editingID = ""
	o.generation++
	o.phase = PhaseIdle
	o.mu.Unlock()
	o.form.Begin(forms.ModeCreate, draft)
}

// OpenEdit opens the edit dialog prefilled from the record with id.
func (o *Orchestrator[E, D, R]) OpenEdit(id string, draft D) {
	o.mu.Lock()
	o.dialogOpen = true
	o.editingID = id
	o.generation++
	o.phase = PhaseIdle
	o.mu.Unlock()
	o.form.Begin(forms.ModeEdit, draft)
}

// Close discards the dialog. Bumping the generation makes any in-flight
// response a no-op when it eventually lands.
func (o *Orchestrator[E, D, R]) Close() {
	o.mu.Lock()
	o.dialogOpen = false
	o.editingID = ""
	o.generation++
	o.phase = PhaseIdle
	o.mu.Unlock()
	o.form.Reset()
}

func (o *Orchestrator[E, D, R]) DialogOpen() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dialogOpen
}

func (o *Orchestrator[E, D, R]) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Form exposes the dialog's form controller for field edits and error
// display.
func (o *Orchestrator[E, D, R]) Form() *forms.Controller[D, R] {
	return o.form
}

// Submit validates the draft and sends it. On success the dialog closes,
// the draft resets, the collection refreshes and a success toast fires.
// On failure the dialog and draft stay as they were so the operator can
// correct and retry.
func (o *Orchestrator[E, D, R]) Submit(ctx context.Context, refs R) error {
	o.mu.Lock()
	if !o.dialogOpen {
		o.mu.Unlock()
		return ErrNoDialog
	}
	if o.phase == PhaseSubmitting {
		o.mu.Unlock()
		return ErrSubmitInFlight
	}
	editingID := o.editingID
	o.mu.Unlock()

	result := o.form.Validate(refs)
	if !result.Valid {
		return ErrValidationFailed
	}

	o.mu.Lock()
	if o.phase == PhaseSubmitting {
		o.mu.Unlock()
		return ErrSubmitInFlight
	}
	o.generation++
	gen := o.generation
	o.phase = PhaseSubmitting
	o.mu.Unlock()

	mode := o.form.Mode()
	draft := o.form.Draft()

	var (
		updated *E
		err     error
	)
	if mode == forms.ModeEdit {
		updated, err = o.api.Update(ctx, editingID, draft)
	} else {
		_, err = o.api.Create(ctx, draft)
	}

	o.mu.Lock()
	if gen != o.generation {
		// Dialog was closed or superseded while waiting; drop the
		// response without touching state.
		o.mu.Unlock()
		return nil
	}
	o.phase = PhaseIdle
	if err != nil {
		o.mu.Unlock()
		o.notifier.Error(ctx, o.failureMessage(mode, err))
		return err
	}
	o.dialogOpen = false
	o.editingID = ""
	o.mu.Unlock()

	o.form.Reset()
	if mode == forms.ModeEdit && updated != nil {
		o.store.ApplyUpdated(*updated)
	} else if refreshErr := o.store.ApplyCreated(ctx); refreshErr != nil {
		// The write succeeded; a failed refresh keeps stale records
		// visible and is reported by the list store itself.
		_ = refreshErr
	}
	o.notifier.Success(ctx, o.successMessage(mode))
	return nil
}

// Delete removes a record. It skips draft validation entirely and is
// gated on the confirmer; a declined confirmation is not an error.
func (o *Orchestrator[E, D, R]) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm != nil && !confirm(o.messages.ConfirmDelete) {
		return nil
	}

	o.mu.Lock()
	if o.phase == PhaseSubmitting {
		o.mu.Unlock()
		return ErrSubmitInFlight
	}
	o.generation++
	gen := o.generation
	o.phase = PhaseSubmitting
	o.mu.Unlock()

	err := o.api.Delete(ctx, id)

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		return nil
	}
	o.phase = PhaseIdle
	o.mu.Unlock()

	if err != nil {
		o.notifier.Error(ctx, withReason(o.messages.DeleteFailed, err))
		return err
	}
	o.store.ApplyDeleted(id)
	o.notifier.Success(ctx, o.messages.Deleted)
	return nil
}

func (o *Orchestrator[E, D, R]) successMessage(mode forms.Mode) string {
	if mode == forms.ModeEdit {
		return o.messages.Updated
	}
	return o.messages.Created
}

func (o *Orchestrator[E, D, R]) failureMessage(mode forms.Mode, err error) string {
	base := o.messages.CreateFailed
	if mode == forms.ModeEdit {
		base = o.messages.UpdateFailed
	}
	return withReason(base, err)
}

func withReason(base string, err error) string {
	if err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, err)
}
