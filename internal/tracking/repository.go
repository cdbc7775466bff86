package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type Repository interface {
	Lookup(ctx context.Context, code string) (*Result, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Lookup resolves a tracking code to its equipment, the most recent repair
// and that repair's status history. A code without any repair yet reports
// not found, same as an unknown code.
func (r *repository) Lookup(ctx context.Context, code string) (*Result, error) {
	var res Result
	err := r.pool.QueryRow(ctx, `
		SELECT e.id, e.description, e.tracking_code, e.received_at, c.name, c.phone,
		       r.id, r.status, r.electrician, r.created_at
		FROM equipment e
		JOIN clients c ON c.id = e.client_id
		JOIN repairs r ON r.equipment_id = e.id
		WHERE e.tracking_code = $1
		ORDER BY r.created_at DESC
		LIMIT 1
	`, code).Scan(
		&res.Equipment.ID, &res.Equipment.Description, &res.Equipment.TrackingCode,
		&res.Equipment.ReceivedAt, &res.Equipment.ClientName, &res.Equipment.ClientPhone,
		&res.Repair.ID, &res.Repair.Status, &res.Repair.Electrician, &res.Repair.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tracking code %s: %w", code, httpx.ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT from_status, to_status, changed_at
		FROM status_history
		WHERE repair_id = $1
		ORDER BY changed_at DESC, id DESC
	`, res.Repair.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res.History = []HistoryView{}
	for rows.Next() {
		var h HistoryView
		if err := rows.Scan(&h.FromStatus, &h.ToStatus, &h.ChangedAt); err != nil {
			return nil, err
		}
		res.History = append(res.History, h)
	}
	return &res, rows.Err()
}
