// Package workflow coordinates form validation with the remote student
// API. Every invocation settles into exactly one terminal Outcome; errors
// travel inside the Outcome and never escape as return values.
package workflow

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/validation"
)

// Kind classifies a terminal outcome.
type Kind int

const (
	Succeeded Kind = iota + 1
	Rejected
	Failed
	Present
	Absent
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// Reasons attached to Rejected and Failed outcomes.
const (
	ReasonValidation      = "validation failed"
	ReasonDuplicate       = "duplicate identifier"
	ReasonExistenceFailed = "existence check failed"
	ReasonCreationFailed  = "creation failed"
	ReasonInvalidID       = "invalid identifier"
	ReasonLookupFailed    = "lookup failed"
	ReasonNotConfirmed    = "deletion not confirmed"
	ReasonDeletionFailed  = "deletion failed"
	ReasonBusy            = "operation in progress"
)

// Outcome is the final state of one workflow invocation.
type Outcome struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error

	// Record is set by lookups that found the student. It is nil when the
	// service confirmed the student but sent no usable detail.
	Record *types.StudentRecord

	// Fields carries the per-field classification for validation failures
	// so the presentation layer can mark them.
	Fields *validation.Result

	// ResetAfter asks the presentation layer to clear the form and go back
	// to the idle view after this delay. Only set on a successful registration.
	ResetAfter time.Duration

	// States lists the registration states visited, in order.
	States []string
}

// StatusCode is the remote HTTP status behind a RemoteError, or 0.
func (o Outcome) StatusCode() int {
	return remote.StatusCode(o.Err)
}

// Terminal reports whether the outcome settled the workflow. Every
// outcome returned by this package is terminal; the zero value is not.
func (o Outcome) Terminal() bool {
	return o.Kind != 0
}

// failureMessage turns a remote error into a user-facing sentence.
// Transport failures point at the service being unreachable.
func failureMessage(action string, err error) string {
	var te *remote.TransportError
	if errors.As(err, &te) {
		host := te.URL
		if u, perr := url.Parse(te.URL); perr == nil && u.Host != "" {
			host = u.Scheme + "://" + u.Host
		}
		return fmt.Sprintf("Cannot connect to the student service at %s. Is it running?", host)
	}

	var re *remote.RemoteError
	if errors.As(err, &re) {
		return fmt.Sprintf("%s: the service answered with status %d", action, re.StatusCode)
	}

	return fmt.Sprintf("%s: %v", action, err)
}
