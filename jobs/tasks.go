package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/reparaciones-app/reparaciones/internal/billing"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskValuationIntegrity scans stored valuation amounts against the live
	// part sums and reports drift.
	TaskValuationIntegrity = "billing:valuation_integrity"
	// TaskRecalculateRepair re-derives the billing amounts of one repair.
	TaskRecalculateRepair = "billing:recalculate_repair"
)

// RecalculateRepairPayload names the repair to recalculate.
type RecalculateRepairPayload struct {
	RepairID int64 `json:"repair_id"`
}

// NewValuationIntegrityTask constructs the periodic integrity scan task.
func NewValuationIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskValuationIntegrity, nil)
}

// NewRecalculateRepairTask constructs a single-repair recalculation task.
func NewRecalculateRepairTask(payload RecalculateRepairPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRecalculateRepair, data), nil
}

// NewRecalculateRepairHandler adapts the billing recalculation into an Asynq
// handler. A malformed payload is dropped rather than retried.
func NewRecalculateRepairHandler(svc *billing.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RecalculateRepairPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		result, err := svc.Recalculate(ctx, payload.RepairID)
		if err != nil {
			return err
		}
		if result == nil {
			logger.Info("recalculate skipped, no valuation",
				slog.Int64("repair_id", payload.RepairID))
			return nil
		}
		logger.Info("repair recalculated",
			slog.Int64("repair_id", payload.RepairID),
			slog.Float64("subtotal", result.Valuation.Subtotal))
		return nil
	}
}
