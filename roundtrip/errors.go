package roundtrip

import (
	"errors"
	"fmt"
)

var (
	ErrEvaluation     = errors.New("evaluation error")
	ErrInvalidBuilder = errors.New("invalid builder expression")
	ErrNotATree       = errors.New("builder expression did not produce a tree")

	ErrReconstruction    = errors.New("reconstruction error")
	ErrNotAModule        = errors.New("callable reconstruction requires a Module tree")
	ErrNoCallable        = errors.New("no function definition")
	ErrAmbiguousCallable = errors.New("more than one function definition")
	ErrMissingSymbol     = errors.New("defined function missing from namespace")

	ErrSourceUnavailable = errors.New("source unavailable")

	ErrMismatch = errors.New("rebuilt tree does not reproduce the dump")
)

// EvaluationError reports a builder expression that could not be turned
// into a tree. Reason is ErrInvalidBuilder or ErrNotATree.
type EvaluationError struct {
	Reason error
	Err    error
}

func (e *EvaluationError) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEvaluation, e.Reason}
	}
	return []error{ErrEvaluation, e.Reason, e.Err}
}

// ReconstructionError reports a tree that cannot yield a single callable.
type ReconstructionError struct {
	Reason error
	Detail string
}

func (e *ReconstructionError) Error() string {
	if e.Detail == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *ReconstructionError) Unwrap() []error {
	return []error{ErrReconstruction, e.Reason}
}
