package presentation

import (
	"github.com/aanand-mishra/sinja/internal/types"
	"github.com/aanand-mishra/sinja/internal/workflow"
)

// OutcomeDTO is the JSON shape of a workflow outcome.
type OutcomeDTO struct {
	Outcome       string               `json:"outcome"`
	Reason        string               `json:"reason,omitempty"`
	Message       string               `json:"message"`
	Status        int                  `json:"status,omitempty"`
	Error         string               `json:"error,omitempty"`
	Student       *types.StudentRecord `json:"student,omitempty"`
	InvalidFields []string             `json:"invalid_fields,omitempty"`
	ResetAfterMS  int64                `json:"reset_after_ms,omitempty"`
}

// NewOutcomeDTO flattens an outcome for JSON output.
func NewOutcomeDTO(out workflow.Outcome) OutcomeDTO {
	dto := OutcomeDTO{
		Outcome:      out.Kind.String(),
		Reason:       out.Reason,
		Message:      out.Message,
		Status:       out.StatusCode(),
		Student:      out.Record,
		ResetAfterMS: out.ResetAfter.Milliseconds(),
	}
	if out.Err != nil {
		dto.Error = out.Err.Error()
	}
	if out.Fields != nil {
		dto.InvalidFields = out.Fields.Invalid()
	}
	return dto
}
