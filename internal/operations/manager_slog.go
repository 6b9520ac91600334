package operations

import (
	"context"
	"log/slog"
	"time"
)

// Step failures are logged at error level by the step itself; the manager
// only traces them at debug level so each failure yields one error line.

// logOperationStart logs the start of an operation execution
func (m *Manager) logOperationStart(ctx context.Context, operationID string, steps []Step) {
	m.logger.DebugContext(ctx, "operation_start",
		slog.String("operation_id", operationID),
		slog.Int("step_count", len(steps)))
}

// logOperationComplete logs the completion of an operation execution
func (m *Manager) logOperationComplete(ctx context.Context, operationID string, duration time.Duration, status OperationStatusValue) {
	m.logger.DebugContext(ctx, "operation_complete",
		slog.String("operation_id", operationID),
		slog.String("status", string(status)),
		slog.Duration("duration", duration))
}

// logStageStart logs the start of a Step execution
func (m *Manager) logStageStart(ctx context.Context, operationID, stageID string, number, total int) {
	m.logger.DebugContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.Int("stage_number", number),
		slog.Int("total_stages", total))
}

// logStageComplete logs the completion of a Step execution
func (m *Manager) logStageComplete(ctx context.Context, operationID, stageID string, duration time.Duration) {
	m.logger.DebugContext(ctx, "stage_complete",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.Duration("duration", duration))
}

// logStageError logs a Step error
func (m *Manager) logStageError(ctx context.Context, operationID, stageID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.DebugContext(ctx, "stage_error",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.String("error", errorMsg))
}

// logStageSkipped logs a Step that did not run
func (m *Manager) logStageSkipped(ctx context.Context, operationID, stageID, reason string) {
	m.logger.DebugContext(ctx, "stage_skipped",
		slog.String("operation_id", operationID),
		slog.String("step", stageID),
		slog.String("reason", reason))
}
