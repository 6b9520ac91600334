package operations

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "ingestcli/internal/errors"
	"ingestcli/internal/infrastructure"
)

// Manager orchestrates operation execution
type Manager struct {
	registry *Registry
	logger   *slog.Logger
	tracer   *OperationTracer
}

// NewManager creates a new operation manager. Nil arguments fall back to
// no-op defaults.
func NewManager(registry *Registry, logger *slog.Logger, tracer *OperationTracer) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if logger == nil {
		logger = infrastructure.DiscardLogger()
	}
	return &Manager{
		registry: registry,
		logger:   logger,
		tracer:   tracer,
	}
}

// RegisterStage registers a Step with the operation
func (m *Manager) RegisterStage(step Step) error {
	return m.registry.Register(step)
}

// Execute runs every registered step in order. The first failing step stops
// the run; the steps after it are marked skipped. The returned error is the
// failing step's own error.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		ctx = infrastructure.EnsureRunID(ctx)
		req.ID = infrastructure.GetRunID(ctx)
	} else {
		ctx = infrastructure.WithRunID(ctx, req.ID)
	}

	state := NewOperationState(req.ID)
	for k, v := range req.Parameters {
		state.SetConfig(k, v)
	}

	steps := m.registry.List()
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
		state.Order = append(state.Order, step.ID())
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID)
	m.logOperationStart(ctx, req.ID, steps)
	state.Start()

	err := m.executeSequential(ctx, state, steps)
	switch {
	case err == nil:
		state.Complete()
	case ctx.Err() != nil:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	m.tracer.RecordOperationCompletion(ctx, span, state.Duration(), state.GetStatus())
	m.logOperationComplete(ctx, req.ID, state.Duration(), state.GetStatus())

	return m.createResponse(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.skipRemaining(ctx, state, steps[i:], "operation cancelled")
			return apperrors.NewAppError(apperrors.ErrTypeUnexpected, "operation",
				fmt.Sprintf("cancelled before step %s", step.ID()), err)
		}

		if err := m.executeStep(ctx, state, step, i+1, len(steps)); err != nil {
			m.skipRemaining(ctx, state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStep validates and runs one step inside its own span
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step, number, total int) error {
	stepState := state.GetStage(step.ID())
	stepCtx, span := m.tracer.TraceStepExecution(ctx, state.ID, step.ID())

	m.logStageStart(stepCtx, state.ID, step.ID(), number, total)
	stepState.Start()

	err := step.Validate(state)
	if err == nil {
		err = step.Execute(stepCtx, state)
	}

	if err != nil {
		stepState.Fail(err)
		m.logStageError(stepCtx, state.ID, step.ID(), err)
	} else {
		stepState.Complete()
		m.logStageComplete(stepCtx, state.ID, step.ID(), stepState.Duration())
	}

	if v, ok := stepState.GetMetadata(MetadataKeyRows); ok {
		rows, _ := v.(int)
		m.tracer.RecordRows(stepCtx, step.ID(), rows)
	}
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), stepState.Duration(), err)
	return err
}

func (m *Manager) skipRemaining(ctx context.Context, state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		state.GetStage(step.ID()).Skip(reason)
		m.logStageSkipped(ctx, state.ID, step.ID(), reason)
	}
}

// createResponse creates an operation response from state
func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Steps:    state.Steps,
		Order:    state.Order,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
