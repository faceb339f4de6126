package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// switchableClient records the model in effect for each call.
type switchableClient struct {
	model      string
	usedModels []string
}

func (c *switchableClient) SetModel(model string) { c.model = model }

func (c *switchableClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

func (c *switchableClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	c.usedModels = append(c.usedModels, c.model)
	return "ok", nil
}

// plainClient has no SetModel.
type plainClient struct{ calls int }

func (c *plainClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

func (c *plainClient) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	c.calls++
	return "ok", nil
}

func TestDispatcherSelectsModelPerPurpose(t *testing.T) {
	client := &switchableClient{model: "base"}
	d := NewDispatcher(client, ModelMap{
		PurposePlanning: "model-planning",
		PurposeCoding:   "model-coding",
	})

	_, err := d.Do(context.Background(), Request{Purpose: PurposePlanning, Prompt: "p"})
	require.NoError(t, err)
	_, err = d.Do(context.Background(), Request{Purpose: PurposeCoding, Prompt: "c"})
	require.NoError(t, err)
	// No architecture entry: the current model stays.
	_, err = d.Do(context.Background(), Request{Purpose: PurposeArchitecture, Prompt: "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"model-planning", "model-coding", "model-coding"}, client.usedModels)
}

func TestDispatcherWithoutModelSetter(t *testing.T) {
	client := &plainClient{}
	d := NewDispatcher(client, ModelMap{PurposePlanning: "model-planning"})

	_, err := d.Do(context.Background(), Request{Purpose: PurposePlanning, Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestDispatcherNilModelMap(t *testing.T) {
	client := &switchableClient{model: "base"}
	d := NewDispatcher(client, nil)

	_, err := d.Do(context.Background(), Request{Purpose: PurposeCoding, Prompt: "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, client.usedModels)
}
