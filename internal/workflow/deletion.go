package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aanand-mishra/sinja/internal/remote"
)

// Confirmer asks the user, out of band, whether to go ahead with a
// deletion.
type Confirmer interface {
	Confirm(ctx context.Context, id int64) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, id int64) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, id int64) (bool, error) {
	return f(ctx, id)
}

// Deletion removes a student after explicit confirmation.
type Deletion struct {
	api     remote.StudentAPI
	confirm Confirmer
	cfg     settings
	inUse   atomic.Bool
}

// NewDeletion returns a Deletion. A nil confirmer never confirms.
func NewDeletion(api remote.StudentAPI, confirm Confirmer, opts ...Option) *Deletion {
	return &Deletion{api: api, confirm: confirm, cfg: newSettings(opts)}
}

// Busy reports whether a delete call is in flight.
func (d *Deletion) Busy() bool {
	return d.inUse.Load()
}

// Delete confirms and then removes the student named by rawID.
func (d *Deletion) Delete(ctx context.Context, rawID string) Outcome {
	id, out, ok := parseID(rawID, d.cfg.idRule())
	if !ok {
		return out
	}

	if !d.inUse.CompareAndSwap(false, true) {
		return busyOutcome()
	}
	defer d.inUse.Store(false)

	confirmed, err := d.confirmed(ctx, id)
	if !confirmed || err != nil {
		d.cfg.log.Info("deletion not confirmed",
			slog.Int64("id", id),
			slog.String("error", errString(err)))
		reason := ErrNotConfirmed
		if err != nil {
			reason = fmt.Errorf("%w: %w", ErrNotConfirmed, err)
		}
		return Outcome{
			Kind:    Rejected,
			Reason:  ReasonNotConfirmed,
			Message: "Deletion cancelled.",
			Err:     reason,
		}
	}

	if err := d.api.Remove(ctx, id); err != nil {
		d.cfg.log.Error("deletion failed",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return Outcome{
			Kind:    Failed,
			Reason:  ReasonDeletionFailed,
			Message: failureMessage("Error deleting the student", err),
			Err:     err,
		}
	}

	d.cfg.log.Info("student deleted", slog.Int64("id", id))
	return Outcome{
		Kind:    Succeeded,
		Message: fmt.Sprintf("Student %d deleted successfully.", id),
	}
}

func (d *Deletion) confirmed(ctx context.Context, id int64) (bool, error) {
	if d.confirm == nil {
		return false, nil
	}
	return d.confirm.Confirm(ctx, id)
}
