// Package backend is the adapter boundary to the generation service. The
// rest of the pipeline talks to the Client interface and classifies every
// failure into one of three error kinds, so stages can decide between retry,
// template fallback, and abort without knowing which provider is behind it.
package backend

import (
	"context"
	"errors"
	"fmt"

	"autoforge/internal/detect"
)

// Client is the minimal interface stages use to call the generation backend.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Purpose tags what a generation request is for. It selects the model
// configuration and the expected response shape.
type Purpose string

const (
	PurposePlanning     Purpose = "planning"
	PurposeArchitecture Purpose = "architecture"
	PurposeCoding       Purpose = "coding"
)

// Request describes one structured generation call.
type Request struct {
	Purpose   Purpose
	Language  detect.Language
	Framework detect.Framework
	System    string
	Prompt    string
	// SchemaHint tells the stage how to parse the response: "json" for a
	// structured object, "text" for raw markdown.
	SchemaHint string
}

// Error kinds the adapter reports. Stages map all three to recoverable
// pipeline errors; only a completely unconfigured backend is fatal, and that
// is caught at startup.
var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("generation backend unavailable")
	// ErrTimeout means the bounded wait for a response elapsed.
	ErrTimeout = errors.New("generation backend timed out")
	// ErrMalformed means the backend answered but the response could not be
	// parsed into the expected structure.
	ErrMalformed = errors.New("malformed backend response")
)

// Classify maps a raw transport error onto the adapter taxonomy. Timeouts and
// cancellations become ErrTimeout, everything else ErrUnavailable. Errors
// already carrying a kind pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrMalformed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
