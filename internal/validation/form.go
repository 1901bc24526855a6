package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aanand-mishra/sinja/internal/types"
)

// Result is the per-field classification of a form plus the aggregate.
// Presentation code marks fields from Fields; nothing here touches the UI.
type Result struct {
	Fields map[string]bool
	Valid  bool
}

// Invalid returns the names of the failing fields, known fields first in
// display order, then any others alphabetically.
func (r Result) Invalid() []string {
	var out []string
	seen := make(map[string]bool, len(types.FormFields))
	for _, name := range types.FormFields {
		seen[name] = true
		if ok, present := r.Fields[name]; present && !ok {
			out = append(out, name)
		}
	}

	var extra []string
	for name, ok := range r.Fields {
		if !seen[name] && !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(out, extra...)
}

// FormValidator applies a rule set across a whole form.
type FormValidator struct {
	rules Rules
}

// NewFormValidator returns a FormValidator over rules. A nil rule set
// falls back to DefaultRules.
func NewFormValidator(rules Rules) *FormValidator {
	if rules == nil {
		rules = DefaultRules()
	}
	return &FormValidator{rules: rules}
}

// Validate classifies every field that appears in the form or has a rule.
// A field with a rule but no value is checked as the empty string; a value
// with no rule is always valid. The form is never modified.
func (v *FormValidator) Validate(form types.Form) Result {
	res := Result{
		Fields: make(map[string]bool, len(form)+len(v.rules)),
		Valid:  true,
	}

	for name := range form {
		res.Fields[name] = true
	}

	for name, rule := range v.rules {
		ok := rule(form[name])
		res.Fields[name] = ok
		if !ok {
			res.Valid = false
		}
	}

	return res
}

// ParseRecord builds a StudentRecord from a form that already passed
// validation. Text fields are trimmed and numeric fields parsed.
func ParseRecord(form types.Form) (types.StudentRecord, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(form[types.FieldID]), 10, 64)
	if err != nil {
		return types.StudentRecord{}, fmt.Errorf("parse %s: %w", types.FieldID, err)
	}

	score, err := strconv.Atoi(strings.TrimSpace(form[types.FieldScoreAdmision]))
	if err != nil {
		return types.StudentRecord{}, fmt.Errorf("parse %s: %w", types.FieldScoreAdmision, err)
	}

	return types.StudentRecord{
		ID:            id,
		Name:          strings.TrimSpace(form[types.FieldName]),
		LastName:      strings.TrimSpace(form[types.FieldLastName]),
		BornPlace:     strings.TrimSpace(form[types.FieldBornPlace]),
		Degree:        strings.TrimSpace(form[types.FieldDegree]),
		Place:         strings.TrimSpace(form[types.FieldPlace]),
		ScoreAdmision: score,
	}, nil
}
