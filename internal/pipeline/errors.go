package pipeline

import "fmt"

// RecordError is a recoverable, record-level failure. The lead is left
// partially processed, the error is logged, and the run continues; counts
// surface in the run summary.
type RecordError struct {
	LeadID string
	Stage  Stage
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("pipeline: %s stage failed for lead %s: %v", e.Stage, e.LeadID, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
