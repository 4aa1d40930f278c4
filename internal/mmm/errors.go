package mmm

import "fmt"

// DataError reports a required column missing from the observation table.
// It is never retried; the caller fixed the wrong table.
type DataError struct {
	Column string
}

// Error implements the error interface
func (e *DataError) Error() string {
	return fmt.Sprintf("required column %q is missing from the dataset", e.Column)
}

// InsufficientDataError reports a table too degenerate to fit: zero rows,
// or a design matrix the solver cannot factor.
type InsufficientDataError struct {
	Rows   int
	Reason string
}

// Error implements the error interface
func (e *InsufficientDataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("insufficient data for fit: %s (rows=%d)", e.Reason, e.Rows)
	}
	return fmt.Sprintf("insufficient data for fit: %d rows", e.Rows)
}

// UntrainedModelError reports a read of fitted state before any fit
type UntrainedModelError struct {
	Operation string
}

// Error implements the error interface
func (e *UntrainedModelError) Error() string {
	return fmt.Sprintf("%s requested before the model was fitted", e.Operation)
}
