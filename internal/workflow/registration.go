package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/looplab/fsm"

	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/validation"
)

// Registration states.
const (
	StateIdle              = "idle"
	StateValidating        = "validating"
	StateCheckingExistence = "checking_existence"
	StateCreating          = "creating"
	StateSucceeded         = "succeeded"
	StateRejected          = "rejected"
	StateFailed            = "failed"
)

const (
	evSubmit  = "submit"
	evCheck   = "check"
	evCreate  = "create"
	evSucceed = "succeed"
	evReject  = "reject"
	evFail    = "fail"
)

// Registration validates a form, checks the identifier is free, and
// creates the record. Only a 404 from the existence check lets it create.
type Registration struct {
	api   remote.StudentAPI
	form  *validation.FormValidator
	cfg   settings
	inUse atomic.Bool
}

// NewRegistration returns a Registration backed by api.
func NewRegistration(api remote.StudentAPI, opts ...Option) *Registration {
	cfg := newSettings(opts)
	return &Registration{
		api:  api,
		form: validation.NewFormValidator(cfg.rules),
		cfg:  cfg,
	}
}

// Busy reports whether a submission is in flight. The presentation layer
// disables the submit action while it is true.
func (r *Registration) Busy() bool {
	return r.inUse.Load()
}

// Submit runs one registration to a terminal outcome.
func (r *Registration) Submit(ctx context.Context, form types.Form) Outcome {
	if !r.inUse.CompareAndSwap(false, true) {
		return busyOutcome()
	}
	defer r.inUse.Store(false)

	run := newRegistrationRun(r)
	out := run.execute(ctx, form)
	out.States = run.visited

	r.cfg.log.Info("registration finished",
		slog.String("state", run.machine.Current()),
		slog.String("outcome", out.Kind.String()),
		slog.String("reason", out.Reason))

	return out
}

// registrationRun holds the state machine for one submission. Nothing in
// it outlives the call to Submit.
type registrationRun struct {
	*Registration
	machine *fsm.FSM
	visited []string
}

func newRegistrationRun(r *Registration) *registrationRun {
	run := &registrationRun{Registration: r, visited: []string{StateIdle}}

	run.machine = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: evSubmit, Src: []string{StateIdle}, Dst: StateValidating},
			{Name: evCheck, Src: []string{StateValidating}, Dst: StateCheckingExistence},
			{Name: evCreate, Src: []string{StateCheckingExistence}, Dst: StateCreating},
			{Name: evSucceed, Src: []string{StateCreating}, Dst: StateSucceeded},
			{Name: evReject, Src: []string{StateValidating, StateCheckingExistence}, Dst: StateRejected},
			{Name: evFail, Src: []string{StateCheckingExistence, StateCreating}, Dst: StateFailed},
		},
		fsm.Callbacks{
			"enter_state": run.onEnterState,
		},
	)

	return run
}

func (run *registrationRun) onEnterState(_ context.Context, e *fsm.Event) {
	run.visited = append(run.visited, e.Dst)
	run.cfg.log.Debug("registration transition",
		slog.String("event", e.Event),
		slog.String("from", e.Src),
		slog.String("to", e.Dst))
}

// fire moves the machine. The event table above covers every call site,
// so an error here is a bug worth logging loudly.
func (run *registrationRun) fire(ctx context.Context, event string) {
	if err := run.machine.Event(ctx, event); err != nil {
		run.cfg.log.Error("registration: illegal transition",
			slog.String("event", event),
			slog.String("state", run.machine.Current()),
			slog.String("error", err.Error()))
	}
}

func (run *registrationRun) execute(ctx context.Context, form types.Form) Outcome {
	run.fire(ctx, evSubmit)

	res := run.form.Validate(form)
	rec, err := validation.ParseRecord(form)
	if res.Valid && err != nil {
		// Digits that overflow an int64 pass the id rule but are not an identifier.
		res.Fields[types.FieldID] = false
		res.Valid = false
	}
	if !res.Valid {
		run.fire(ctx, evReject)
		invalid := res.Invalid()
		run.cfg.log.Warn("registration rejected", slog.Any("invalid_fields", invalid))
		return Outcome{
			Kind:    Rejected,
			Reason:  ReasonValidation,
			Message: "Please correct the errors in the form.",
			Err:     &ValidationError{Invalid: invalid},
			Fields:  &res,
		}
	}

	run.fire(ctx, evCheck)
	existing := run.api.Exists(ctx, rec.ID)

	switch existing.Kind {
	case remote.ExistsFound:
		run.fire(ctx, evReject)
		run.cfg.log.Warn("registration rejected: duplicate", slog.Int64("id", rec.ID))
		return Outcome{
			Kind:    Rejected,
			Reason:  ReasonDuplicate,
			Message: fmt.Sprintf("Student %d already exists in the database.", rec.ID),
			Err:     &ConflictError{ID: rec.ID},
			Record:  existing.Record,
		}

	case remote.ExistsNotFound:
		run.fire(ctx, evCreate)

	default:
		run.fire(ctx, evFail)
		run.cfg.log.Error("existence check failed",
			slog.Int64("id", rec.ID),
			slog.String("error", errString(existing.Err)))
		return Outcome{
			Kind:    Failed,
			Reason:  ReasonExistenceFailed,
			Message: failureMessage("Could not verify the student", existing.Err),
			Err:     existing.Err,
		}
	}

	if err := run.api.Create(ctx, rec); err != nil {
		run.fire(ctx, evFail)
		run.cfg.log.Error("student creation failed",
			slog.Int64("id", rec.ID),
			slog.String("error", err.Error()))
		return Outcome{
			Kind:    Failed,
			Reason:  ReasonCreationFailed,
			Message: failureMessage("Could not register the student", err),
			Err:     err,
		}
	}

	run.fire(ctx, evSucceed)
	run.cfg.log.Info("student registered", slog.Int64("id", rec.ID))
	return Outcome{
		Kind:       Succeeded,
		Message:    "Registration successful.",
		ResetAfter: run.cfg.resetDelay,
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
