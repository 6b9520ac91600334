package operations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestcli/internal/operations"
)

// funcStep is a Step whose behaviour is supplied by the test
type funcStep struct {
	operations.BaseStage
	execute  func(ctx context.Context, state *operations.OperationState) error
	validate func(state *operations.OperationState) error
}

func newFuncStep(id string, execute func(ctx context.Context, state *operations.OperationState) error) *funcStep {
	return &funcStep{
		BaseStage: operations.NewBaseStage(id, "Step "+id),
		execute:   execute,
	}
}

func (s *funcStep) Execute(ctx context.Context, state *operations.OperationState) error {
	if s.execute == nil {
		return nil
	}
	return s.execute(ctx, state)
}

func (s *funcStep) Validate(state *operations.OperationState) error {
	if s.validate == nil {
		return nil
	}
	return s.validate(state)
}

func TestRegistry_Register(t *testing.T) {
	registry := operations.NewRegistry()

	require.NoError(t, registry.Register(newFuncStep("load_params", nil)))
	require.NoError(t, registry.Register(newFuncStep("load_data", nil)))
	require.NoError(t, registry.Register(newFuncStep("preprocess", nil)))

	assert.Equal(t, 3, registry.Count())
	assert.Equal(t, []string{"load_params", "load_data", "preprocess"}, registry.ListIDs())
	assert.True(t, registry.Has("load_data"))

	step, err := registry.Get("preprocess")
	require.NoError(t, err)
	assert.Equal(t, "Step preprocess", step.Name())

	ids := make([]string, 0)
	for _, s := range registry.List() {
		ids = append(ids, s.ID())
	}
	assert.Equal(t, registry.ListIDs(), ids)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(newFuncStep("split", nil)))

	tests := []struct {
		name string
		step operations.Step
	}{
		{"nil step", nil},
		{"empty id", newFuncStep("", nil)},
		{"duplicate id", newFuncStep("split", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, registry.Register(tt.step))
		})
	}
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_GetMissing(t *testing.T) {
	_, err := operations.NewRegistry().Get("save")
	assert.Error(t, err)
}
