package backend

import (
	"context"

	"autoforge/internal/logging"
)

// ModelMap holds the resolved model for each request purpose.
type ModelMap map[Purpose]string

// modelSetter is implemented by clients whose model can be switched per
// call. Clients without it (fakes, fixed-model providers) are used as-is.
type modelSetter interface {
	SetModel(model string)
}

// Dispatcher executes structured requests against a Client, switching the
// model to the one resolved for the request's purpose before each call.
type Dispatcher struct {
	client Client
	models ModelMap
}

// NewDispatcher pairs a client with per-purpose model selection. A nil or
// empty model map leaves the client's own model in place.
func NewDispatcher(client Client, models ModelMap) *Dispatcher {
	return &Dispatcher{client: client, models: models}
}

// Do executes one generation request.
func (d *Dispatcher) Do(ctx context.Context, req Request) (string, error) {
	if setter, ok := d.client.(modelSetter); ok {
		if model := d.models[req.Purpose]; model != "" {
			setter.SetModel(model)
		}
	}
	logging.Get(logging.CategoryBackend).Debug("dispatching %s call (language %s, schema %s)",
		req.Purpose, req.Language, req.SchemaHint)
	return d.client.CompleteWithSystem(ctx, req.System, req.Prompt)
}
