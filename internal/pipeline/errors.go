package pipeline

import (
	"errors"
	"fmt"
	"time"

	"autoforge/internal/backend"
	"autoforge/internal/deps"
	"autoforge/internal/repo"
)

// ErrorKind classifies a pipeline error for the session error log.
type ErrorKind string

const (
	KindDetectionAmbiguity   ErrorKind = "detection_ambiguity"
	KindRepoUnreadable       ErrorKind = "repo_unreadable"
	KindBackendUnavailable   ErrorKind = "backend_unavailable"
	KindBackendTimeout       ErrorKind = "backend_timeout"
	KindMalformedResponse    ErrorKind = "malformed_response"
	KindDependencyConflict   ErrorKind = "dependency_conflict"
	KindToolMissing          ErrorKind = "tool_missing"
	KindManifestUnsupported  ErrorKind = "manifest_unsupported"
	KindFileSystemPermission ErrorKind = "filesystem_permission"
	KindInternal             ErrorKind = "internal"
)

// RecoverableError is logged to the session error log and the pipeline
// advances, usually after a template fallback filled the gap.
type RecoverableError struct {
	Stage Phase
	Kind  ErrorKind
	Err   error
}

func (e *RecoverableError) Error() string {
	return fmt.Sprintf("%s: recoverable %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *RecoverableError) Unwrap() error { return e.Err }

// FatalError aborts the pipeline, preserving state for inspection.
type FatalError struct {
	Stage Phase
	Kind  ErrorKind
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: fatal %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Recoverable wraps an error for log-and-advance handling.
func Recoverable(stage Phase, kind ErrorKind, err error) *RecoverableError {
	return &RecoverableError{Stage: stage, Kind: kind, Err: err}
}

// Fatal wraps an error that must abort the run.
func Fatal(stage Phase, kind ErrorKind, err error) *FatalError {
	return &FatalError{Stage: stage, Kind: kind, Err: err}
}

// KindFor maps a classified error from a lower layer onto the taxonomy.
func KindFor(err error) ErrorKind {
	switch {
	case errors.Is(err, backend.ErrTimeout):
		return KindBackendTimeout
	case errors.Is(err, backend.ErrUnavailable):
		return KindBackendUnavailable
	case errors.Is(err, backend.ErrMalformed):
		return KindMalformedResponse
	case errors.Is(err, repo.ErrRepoUnreadable):
		return KindRepoUnreadable
	case errors.Is(err, deps.ErrUnsupported):
		return KindManifestUnsupported
	}
	return KindInternal
}

// ErrorRecord is one entry in the persisted session error log.
type ErrorRecord struct {
	Stage   Phase     `json:"stage"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Fatal   bool      `json:"fatal"`
	At      time.Time `json:"at"`
}
