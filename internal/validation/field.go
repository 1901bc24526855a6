// Package validation classifies raw form values as valid or invalid.
//
// Field rules are expressed as go-playground/validator tags. Three custom
// tags are registered on top of the built-in ones:
//
//	digits      one or more ASCII decimal digits, nothing else
//	personname  letters (accented Latin included) and spaces, non-empty after trim
//	notblank    non-empty after trimming whitespace
//
// The same *validator.Validate instance backs both the per-field rules
// used by the client and the struct validation used by the stub API.
package validation

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/sinja/internal/types"
)

var (
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
	personNameRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
)

// validate is safe for concurrent use once the custom tags are registered.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names, which are also the form field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// RegisterValidation only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		trimmed := strings.TrimSpace(fl.Field().String())
		return trimmed != "" && personNameRe.MatchString(trimmed)
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	return validate
}

// Rule reports whether a raw field value is acceptable. Rules are pure.
type Rule func(raw string) bool

// Rules maps a field name to its rule.
type Rules map[string]Rule

// tagRule builds a Rule that checks the raw string against a validator tag.
func tagRule(tag string) Rule {
	return func(raw string) bool {
		return validate.Var(raw, tag) == nil
	}
}

// IDValid reports whether v is a non-empty string of decimal digits.
func IDValid(v string) bool {
	return tagRule("required,digits")(v)
}

// ScoreValid reports whether v parses as an integer in [0, 500].
func ScoreValid(v string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return validate.Var(n, "gte=0,lte=500") == nil
}

// DefaultRules returns the rule set for a StudentRecord form.
func DefaultRules() Rules {
	return Rules{
		types.FieldID:            IDValid,
		types.FieldName:          tagRule("personname"),
		types.FieldLastName:      tagRule("personname"),
		types.FieldBornPlace:     tagRule("notblank"),
		types.FieldDegree:        tagRule("notblank"),
		types.FieldPlace:         tagRule("notblank"),
		types.FieldScoreAdmision: ScoreValid,
	}
}
