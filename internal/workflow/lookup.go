package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/validation"
)

// Lookup reads one student by identifier.
type Lookup struct {
	api   remote.StudentAPI
	cfg   settings
	inUse atomic.Bool
}

// NewLookup returns a Lookup backed by api.
func NewLookup(api remote.StudentAPI, opts ...Option) *Lookup {
	return &Lookup{api: api, cfg: newSettings(opts)}
}

// Busy reports whether a lookup is in flight.
func (l *Lookup) Busy() bool {
	return l.inUse.Load()
}

// Find validates rawID locally and, if it is an identifier, asks the
// service for it.
func (l *Lookup) Find(ctx context.Context, rawID string) Outcome {
	id, out, ok := parseID(rawID, l.cfg.idRule())
	if !ok {
		return out
	}

	if !l.inUse.CompareAndSwap(false, true) {
		return busyOutcome()
	}
	defer l.inUse.Store(false)

	res := l.api.Exists(ctx, id)

	switch res.Kind {
	case remote.ExistsFound:
		msg := "Student found."
		if !res.Decoded() {
			msg = "Student found, but the service sent no details."
		}
		l.cfg.log.Info("lookup found student",
			slog.Int64("id", id),
			slog.Bool("decoded", res.Decoded()))
		return Outcome{Kind: Present, Message: msg, Record: res.Record}

	case remote.ExistsNotFound:
		l.cfg.log.Info("lookup found nothing", slog.Int64("id", id))
		return Outcome{
			Kind:    Absent,
			Message: fmt.Sprintf("No student found with ID %d.", id),
		}

	default:
		l.cfg.log.Error("lookup failed",
			slog.Int64("id", id),
			slog.String("error", errString(res.Err)))
		return Outcome{
			Kind:    Failed,
			Reason:  ReasonLookupFailed,
			Message: failureMessage("Error while looking up the student", res.Err),
			Err:     res.Err,
		}
	}
}

// parseID trims and checks an identifier typed by the user against rule.
// When it is not usable, the returned Outcome is the Rejected result to report.
func parseID(raw string, rule validation.Rule) (int64, Outcome, bool) {
	trimmed := strings.TrimSpace(raw)
	reject := Outcome{
		Kind:    Rejected,
		Reason:  ReasonInvalidID,
		Message: "Please enter a valid ID (digits only).",
	}

	if !rule(trimmed) {
		reject.Err = &ValidationError{Invalid: []string{types.FieldID}}
		return 0, reject, false
	}

	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		reject.Err = &ValidationError{Invalid: []string{types.FieldID}}
		return 0, reject, false
	}

	return id, Outcome{}, true
}
