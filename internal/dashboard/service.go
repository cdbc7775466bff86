// Package dashboard aggregates the counters the shop's landing screen shows.
package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Summary groups the workshop load at a glance: repairs bucketed by workflow
// stage plus the quotations awaiting a client decision.
type Summary struct {
	TotalRepairs       int64            `json:"total_repairs"`
	RepairsByStatus    map[string]int64 `json:"repairs_by_status"`
	PendingQuotations  int64            `json:"pending_quotations"`
	EquipmentInShop    int64            `json:"equipment_in_shop"`
	DeliveriesThisWeek int64            `json:"deliveries_this_week"`
}

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Summary runs the four aggregate queries concurrently; they touch disjoint
// tables and none depends on another's result.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	sum := Summary{RepairsByStatus: map[string]int64{}}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.pool.Query(ctx,
			`SELECT status, COUNT(*) FROM repairs GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var n int64
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			sum.RepairsByStatus[status] = n
			sum.TotalRepairs += n
		}
		return rows.Err()
	})

	g.Go(func() error {
		return s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM quotations WHERE status IN ('PENDIENTE', 'ENVIADA')`,
		).Scan(&sum.PendingQuotations)
	})

	g.Go(func() error {
		return s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM equipment WHERE status <> 'ENTREGADO'`,
		).Scan(&sum.EquipmentInShop)
	})

	g.Go(func() error {
		return s.pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM deliveries WHERE created_at >= NOW() - INTERVAL '7 days'`,
		).Scan(&sum.DeliveriesThisWeek)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}
