package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// casNumberRe matches CAS registry numbers: 2-7 digits, 2 digits, 1 check
// digit, hyphen separated.
var casNumberRe = regexp.MustCompile(`^\d{2,7}-\d{2}-\d{1}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// sharedValidator returns the process-wide validator with the custom tags
// the draft structs use. Field names resolve through json tags so tag
// errors line up with rule fields and wire names.
func sharedValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("cas", func(fl validator.FieldLevel) bool {
			return casNumberRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("mindigits", func(fl validator.FieldLevel) bool {
			want := 0
			if _, err := fmt.Sscanf(fl.Param(), "%d", &want); err != nil {
				return false
			}
			digits := 0
			for _, r := range fl.Field().String() {
				if unicode.IsDigit(r) {
					digits++
				}
			}
			return digits >= want
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// tagMessage maps a failed validator tag to the message shown next to the
// field.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "cas":
		return "must be a valid CAS number (e.g. 64-17-5)"
	case "mindigits":
		return fmt.Sprintf("must contain at least %s digits", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a valid identifier"
	}
	return "is invalid"
}
