package compare

import (
	"errors"
	"fmt"

	"github.com/ccollicutt/refcompare/pkg/align"
)

// Sentinel errors for the failure kinds a comparison can surface.
var (
	// ErrInputNotFound means the work file does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrReferenceNotFound means the reference was not found in any reference
	// directory nor at its given path.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrResourceLimitExceeded means the inputs are too large to align within
	// the configured bound.
	ErrResourceLimitExceeded = align.ErrResourceLimitExceeded
)

// FailureKind names a failure category.
type FailureKind string

const (
	FailureInputNotFound     FailureKind = "input_not_found"
	FailureReferenceNotFound FailureKind = "reference_not_found"
	FailureResourceLimit     FailureKind = "resource_limit_exceeded"
)

// Failure describes a comparison that could not produce a diff.
// It implements error and unwraps to the matching sentinel.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Path    string      `json:"path,omitempty"`
	Message string      `json:"message"`

	err error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.err
}

func newFailure(kind FailureKind, path string, err error) *Failure {
	return &Failure{
		Kind:    kind,
		Path:    path,
		Message: err.Error(),
		err:     err,
	}
}

func inputNotFound(path string, cause error) *Failure {
	return newFailure(FailureInputNotFound, path, fmt.Errorf("%w: work log %s: %w", ErrInputNotFound, path, cause))
}

func referenceNotFound(path string, cause error) *Failure {
	return newFailure(FailureReferenceNotFound, path, fmt.Errorf("%w: reference log %s: %w", ErrReferenceNotFound, path, cause))
}

func resourceLimit(cause error) *Failure {
	return newFailure(FailureResourceLimit, "", cause)
}

// FailureMode selects how failures reach the caller.
type FailureMode int

const (
	// FailureReport returns failures inside the Result with a nil error.
	FailureReport FailureMode = iota

	// FailureAbort returns failures as errors.
	FailureAbort
)
