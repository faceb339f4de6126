package pipeline

import (
	"context"
	"errors"

	"autoforge/internal/backend"
)

// Stage is one pipeline phase. Run mutates the shared state and returns nil,
// a *RecoverableError, or a *FatalError; the orchestrator treats anything
// else as fatal.
type Stage interface {
	Name() Phase
	Run(ctx context.Context, st *State) error
}

// Generator is what the backend-invoking stages call. The production
// implementation is backend.Dispatcher, which selects the model per request
// purpose.
type Generator interface {
	Do(ctx context.Context, req backend.Request) (string, error)
}

// retryable reports whether a backend error deserves one more attempt.
func retryable(err error) bool {
	return errors.Is(err, backend.ErrUnavailable) ||
		errors.Is(err, backend.ErrTimeout) ||
		errors.Is(err, backend.ErrMalformed)
}

// generateWithRetry performs a backend call plus response parsing with the
// pipeline's retry policy: one extra attempt on a transient failure or a
// malformed response, then the caller falls back to templates. A response
// that arrives but does not parse counts as malformed and is retried the
// same as a failed call.
func generateWithRetry(ctx context.Context, gen Generator, retries int, req backend.Request, parse func(raw string) error) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return backend.Classify(err)
		}
		raw, err := gen.Do(ctx, req)
		if err == nil {
			if err = parse(raw); err == nil {
				return nil
			}
		}
		lastErr = backend.Classify(err)
		if !retryable(lastErr) {
			break
		}
	}
	return lastErr
}
