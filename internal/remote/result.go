package remote

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aanand-mishra/sinja/internal/types"
)

// ExistsKind tags the outcome of an existence check. 404 is the only
// status that means absent.
type ExistsKind int

const (
	ExistsError ExistsKind = iota
	ExistsFound
	ExistsNotFound
)

func (k ExistsKind) String() string {
	switch k {
	case ExistsFound:
		return "found"
	case ExistsNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// ExistsResult is the tagged result of Exists.
//
// For ExistsFound, Record is nil when the success body was empty or not a
// record; DecodeErr then says why. Callers must handle that branch.
// For ExistsError, Err is a *TransportError or a *RemoteError.
type ExistsResult struct {
	Kind      ExistsKind
	Record    *types.StudentRecord
	DecodeErr error
	Err       error
}

// Decoded reports whether a found record came with usable detail.
func (r ExistsResult) Decoded() bool {
	return r.Kind == ExistsFound && r.Record != nil
}

// decodeRecord turns a success body into a record. It never panics on
// bad input; the error explains what was wrong.
func decodeRecord(body []byte) (*types.StudentRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyBody
	}

	var rec types.StudentRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode student record: %w", err)
	}
	return &rec, nil
}
