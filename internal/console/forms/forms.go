// Package forms drives the create/edit dialogs: a typed draft, a rule
// table, and an explicit lifecycle from pristine to valid or invalid.
// Validation reports every failing field at once, and editing a field
// clears that field's error until the next validation pass.
package forms

import (
	"fmt"
	"sync"
)

// Mode distinguishes the create dialog from the edit dialog.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// State is the form lifecycle. Transitions: Pristine -> Editing on first
// field change, any -> Validating during a pass, then Valid or Invalid.
type State string

const (
	StatePristine   State = "pristine"
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateValid      State = "valid"
	StateInvalid    State = "invalid"
)

// Controller owns one dialog's draft and validation state. T is the
// draft type, R the cross-record reference context its rules read.
type Controller[T, R any] struct {
	mu      sync.Mutex
	ruleSet *RuleSet[T, R]
	mode    Mode
	state   State
	editing bool
	draft   T
	result  Result
}

func NewController[T, R any](ruleSet *RuleSet[T, R]) (*Controller[T, R], error) {
	if ruleSet == nil {
		return nil, fmt.Errorf("rule set is required")
	}
	return &Controller[T, R]{ruleSet: ruleSet, state: StatePristine, result: emptyResult()}, nil
}

// Begin opens the dialog with an initial draft: zero-valued for create,
// prefilled from the record for edit. All prior errors are discarded.
func (c *Controller[T, R]) Begin(mode Mode, draft T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.draft = draft
	c.state = StatePristine
	c.editing = false
	c.result = emptyResult()
}

// SetField applies a single-field edit to the draft and optimistically
// clears that field's error and warning until the next Validate.
func (c *Controller[T, R]) SetField(field string, mutate func(draft *T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mutate(&c.draft)
	c.editing = true
	if c.state == StatePristine || c.state == StateValid || c.state == StateInvalid {
		c.state = StateEditing
	}
	delete(c.result.Errors, field)
	delete(c.result.Warnings, field)
}

// Validate runs the full rule table against the current draft and moves
// the form to Valid or Invalid.
func (c *Controller[T, R]) Validate(refs R) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateValidating
	c.result = c.ruleSet.Evaluate(c.draft, refs, c.mode)
	if c.result.Valid {
		c.state = StateValid
	} else {
		c.state = StateInvalid
	}
	return copyResult(c.result)
}

// Reset returns the form to a pristine zero draft.
func (c *Controller[T, R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.draft = zero
	c.state = StatePristine
	c.editing = false
	c.result = emptyResult()
}

// Draft returns the current draft value.
func (c *Controller[T, R]) Draft() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller[T, R]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T, R]) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Dirty reports whether any field changed since Begin.
func (c *Controller[T, R]) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Errors returns the blocking messages from the last validation pass,
// minus any cleared by subsequent edits.
func (c *Controller[T, R]) Errors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.result.Errors)
}

// Warnings returns the advisory messages from the last validation pass.
func (c *Controller[T, R]) Warnings() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.result.Warnings)
}

func emptyResult() Result {
	return Result{Valid: false, Errors: map[string]string{}, Warnings: map[string]string{}}
}

func copyResult(r Result) Result {
	return Result{Valid: r.Valid, Errors: copyMap(r.Errors), Warnings: copyMap(r.Warnings)}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
