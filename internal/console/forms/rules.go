package forms

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Severity separates rules that block submission from rules that only
// warn.
type Severity int

const (
	// Blocking failures keep the form invalid.
	Blocking Severity = iota
	// Advisory failures surface as warnings and never block submission.
	Advisory
)

// Applicability scopes a rule to create, edit, or both.
type Applicability int

const (
	Always Applicability = iota
	CreateOnly
	EditOnly
)

// Rule is one domain check over a draft. Check returns the message for
// the field, or empty when the rule passes. refs carries the cross-record
// context the rule needs, e.g. current stock or sibling records.
type Rule[T, R any] struct {
	Field    string
	Severity Severity
	Applies  Applicability
	Check    func(draft T, refs R, mode Mode) string
}

// Result is one validation pass over the whole draft. Every failing field
// is reported at once; the first message per field wins.
type Result struct {
	Valid    bool
	Errors   map[string]string
	Warnings map[string]string
}

// RuleSet evaluates struct-tag format rules and the table of domain
// rules against a draft.
type RuleSet[T, R any] struct {
	rules []Rule[T, R]
}

func NewRuleSet[T, R any](rules ...Rule[T, R]) *RuleSet[T, R] {
	return &RuleSet[T, R]{rules: rules}
}

// Evaluate runs every applicable rule. Blocking failures land in Errors,
// advisory failures in Warnings. Valid is true iff Errors is empty.
func (rs *RuleSet[T, R]) Evaluate(draft T, refs R, mode Mode) Result {
	result := Result{
		Errors:   map[string]string{},
		Warnings: map[string]string{},
	}

	if err := sharedValidator().Struct(draft); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asValidationErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				setOnce(result.Errors, fe.Field(), tagMessage(fe))
			}
		} else {
			setOnce(result.Errors, "_form", "draft could not be validated")
		}
	}

	for _, rule := range rs.rules {
		if !rule.appliesTo(mode) || rule.Check == nil {
			continue
		}
		message := rule.Check(draft, refs, mode)
		if message == "" {
			continue
		}
		if rule.Severity == Advisory {
			setOnce(result.Warnings, rule.Field, message)
		} else {
			setOnce(result.Errors, rule.Field, message)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func (r Rule[T, R]) appliesTo(mode Mode) bool {
	switch r.Applies {
	case CreateOnly:
		return mode == ModeCreate
	case EditOnly:
		return mode == ModeEdit
	}
	return true
}

func setOnce(m map[string]string, field, message string) {
	if _, exists := m[field]; !exists {
		m[field] = message
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

// Clock lets temporal rules be tested against a fixed instant.
type Clock func() time.Time

func orNow(clock Clock) time.Time {
	if clock != nil {
		return clock()
	}
	return time.Now()
}

// DateNotFuture fails when the extracted date lies after today.
func DateNotFuture[T, R any](field string, get func(T) *time.Time, clock Clock) Rule[T, R] {
	return Rule[T, R]{
		Field: field,
		Check: func(draft T, _ R, _ Mode) string {
			value := get(draft)
			if value == nil {
				return ""
			}
			if value.After(endOfDay(orNow(clock))) {
				return "must not be in the future"
			}
			return ""
		},
	}
}

// DateWithinYears fails when the extracted date lies more than years in
// the past. The window differs per collection, so it is a parameter.
func DateWithinYears[T, R any](field string, years int, get func(T) *time.Time, clock Clock) Rule[T, R] {
	return Rule[T, R]{
		Field: field,
		Check: func(draft T, _ R, _ Mode) string {
			value := get(draft)
			if value == nil {
				return ""
			}
			floor := orNow(clock).AddDate(-years, 0, 0)
			if value.Before(floor) {
				return fmt.Sprintf("must not be more than %d years in the past", years)
			}
			return ""
		},
	}
}

// DateOnOrAfter fails when upper precedes lower by less than minDays.
// With minDays zero the two dates may coincide.
func DateOnOrAfter[T, R any](field string, minDays int, lower, upper func(T) *time.Time, message string) Rule[T, R] {
	return Rule[T, R]{
		Field: field,
		Check: func(draft T, _ R, _ Mode) string {
			lo, hi := lower(draft), upper(draft)
			if lo == nil || hi == nil {
				return ""
			}
			if hi.Before(lo.AddDate(0, 0, minDays)) {
				return message
			}
			return ""
		},
	}
}

// UniqueOnCreate fails when the draft value collides case-insensitively
// with an existing record's value. It never runs in edit mode, where the
// record legitimately matches itself.
func UniqueOnCreate[T, R any](field string, value func(T) string, existing func(R) []string) Rule[T, R] {
	return Rule[T, R]{
		Field:   field,
		Applies: CreateOnly,
		Check: func(draft T, refs R, _ Mode) string {
			want := strings.TrimSpace(value(draft))
			if want == "" {
				return ""
			}
			for _, have := range existing(refs) {
				if strings.EqualFold(strings.TrimSpace(have), want) {
					return "is already in use"
				}
			}
			return ""
		},
	}
}

// QuantityPositive fails when the decimal quantity is zero or negative.
func QuantityPositive[T, R any](field string, get func(T) decimal.Decimal) Rule[T, R] {
	return Rule[T, R]{
		Field: field,
		Check: func(draft T, _ R, _ Mode) string {
			if get(draft).LessThanOrEqual(decimal.Zero) {
				return "must be greater than zero"
			}
			return ""
		},
	}
}

// QuantityAtMost fails when the draft quantity exceeds the limit computed
// from refs, e.g. quantity on hand. limitName labels the message.
func QuantityAtMost[T, R any](field, limitName string, get func(T) decimal.Decimal, limit func(R) decimal.Decimal) Rule[T, R] {
	return Rule[T, R]{
		Field: field,
		Check: func(draft T, refs R, _ Mode) string {
			max := limit(refs)
			if get(draft).GreaterThan(max) {
				return fmt.Sprintf("must not exceed %s %s", max.String(), limitName)
			}
			return ""
		},
	}
}

// Advise downgrades a rule to a warning.
func Advise[T, R any](rule Rule[T, R]) Rule[T, R] {
	rule.Severity = Advisory
	return rule
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
