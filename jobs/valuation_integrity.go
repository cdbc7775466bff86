package jobs

import (
	"context"
	"log/slog"
	"math"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/reparaciones-app/reparaciones/internal/jobs"
)

// driftTolerance absorbs float representation noise; anything above a tenth
// of a cent is real drift.
const driftTolerance = 0.001

// ValuationIntegrityChecker compares each stored valuation against the live
// sum of its repair's parts and reports any drift. It never mutates: the
// recalculation engine is the only writer of derived amounts, and this scan
// exists to tell us when that promise was broken.
type ValuationIntegrityChecker struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

func NewValuationIntegrityChecker(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *ValuationIntegrityChecker {
	return &ValuationIntegrityChecker{pool: pool, logger: logger, metrics: metrics}
}

// Handle runs the scan as an Asynq task.
func (c *ValuationIntegrityChecker) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := c.metrics.Track("valuation_integrity")
	drifted, scanned, err := c.Run(ctx)
	if err != nil {
		return tracker.End(err)
	}
	c.metrics.AddDrift(drifted)
	c.logger.Info("valuation integrity scan finished",
		slog.Int("scanned", scanned),
		slog.Int("drifted", drifted))
	return tracker.End(nil)
}

// Run executes the scan and returns how many valuations drifted out of the
// total scanned.
func (c *ValuationIntegrityChecker) Run(ctx context.Context) (drifted, scanned int, err error) {
	rows, err := c.pool.Query(ctx, `
		SELECT v.id, v.repair_id, v.parts_cost, v.labor_amount, v.subtotal,
		       COALESCE(SUM(p.subtotal), 0) AS live_parts_cost
		FROM valuations v
		LEFT JOIN parts_used p ON p.repair_id = v.repair_id
		GROUP BY v.id, v.repair_id, v.parts_cost, v.labor_amount, v.subtotal
	`)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, repairID                                    int64
			partsCost, laborAmount, subtotal, livePartsCost float64
		)
		if err := rows.Scan(&id, &repairID, &partsCost, &laborAmount, &subtotal, &livePartsCost); err != nil {
			return drifted, scanned, err
		}
		scanned++

		costDrift := math.Abs(partsCost - livePartsCost)
		subtotalDrift := math.Abs(subtotal - (livePartsCost + laborAmount))
		if costDrift <= driftTolerance && subtotalDrift <= driftTolerance {
			continue
		}

		drifted++
		c.logger.Warn("valuation drift detected",
			slog.Int64("valuation_id", id),
			slog.Int64("repair_id", repairID),
			slog.Float64("stored_parts_cost", partsCost),
			slog.Float64("live_parts_cost", livePartsCost),
			slog.Float64("stored_subtotal", subtotal))
	}
	return drifted, scanned, rows.Err()
}
