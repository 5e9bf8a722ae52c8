package transfer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahardinathillc/whippet-sub000/internal/marshal"
)

// ErrRejectLimit is returned when a run rejects more records than allowed.
var ErrRejectLimit = errors.New("transfer: reject limit exceeded")

// RejectLimitError reports the limit a run exceeded.
type RejectLimitError struct {
	Limit int
}

func (e *RejectLimitError) Error() string {
	return fmt.Sprintf("transfer: more than %d records rejected", e.Limit)
}

func (e *RejectLimitError) Is(err error) bool {
	return err == ErrRejectLimit
}

// Report summarizes one pipeline run.
type Report struct {
	RunID    uuid.UUID
	TraceID  string // empty unless the run was sampled
	Entity   string
	Source   string
	Target   string
	Read     int
	Written  int
	Rejected int
	DryRun   bool
	Duration time.Duration

	// Rejections holds the first rejected records of the run. Truncated is
	// set when more were rejected than kept.
	Rejections []Rejection
	Truncated  bool
}

// Rejection describes one record the pipeline could not transfer.
type Rejection struct {
	Key    any
	Field  string
	Column string
	Err    error
}

func newRejection(key any, err error) Rejection {
	r := Rejection{Key: key, Err: err}
	var fe *marshal.FieldExtractionError
	var fp *marshal.FieldProjectionError
	switch {
	case errors.As(err, &fe):
		r.Field, r.Column = fe.Field, fe.Column
	case errors.As(err, &fp):
		r.Field, r.Column = fp.Field, fp.Column
	}
	return r
}
