package workflow

import (
	"log/slog"
	"time"

	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/validation"
)

// DefaultResetDelay is how long a successful registration stays visible.
const DefaultResetDelay = 2 * time.Second

type settings struct {
	log        *slog.Logger
	rules      validation.Rules
	resetDelay time.Duration
}

// Option customises a workflow.
type Option func(*settings)

// WithLogger sets the logger for workflow records.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithRules replaces the default field rules.
func WithRules(r validation.Rules) Option {
	return func(s *settings) { s.rules = r }
}

// WithResetDelay sets the delay reported on successful registrations.
func WithResetDelay(d time.Duration) Option {
	return func(s *settings) { s.resetDelay = d }
}

func newSettings(opts []Option) settings {
	s := settings{
		log:        slog.Default(),
		rules:      validation.DefaultRules(),
		resetDelay: DefaultResetDelay,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// idRule is the configured rule for identifiers, IDValid when none is set.
func (s settings) idRule() validation.Rule {
	if rule, ok := s.rules[types.FieldID]; ok && rule != nil {
		return rule
	}
	return validation.IDValid
}

func busyOutcome() Outcome {
	return Outcome{
		Kind:    Rejected,
		Reason:  ReasonBusy,
		Message: "Please wait for the current operation to finish.",
		Err:     ErrBusy,
	}
}
