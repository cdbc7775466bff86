package parts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for part rows.
type Repository interface {
	Get(ctx context.Context, id int64) (*Part, error)
	ListByRepair(ctx context.Context, repairID int64) ([]Part, error)
	Create(ctx context.Context, p Part) (int64, error)
	Update(ctx context.Context, p Part) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const partColumns = `id, repair_id, code, description, quantity, unit_price, subtotal, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Part, error) {
	var p Part
	err := r.pool.QueryRow(ctx,
		`SELECT `+partColumns+` FROM parts_used WHERE id = $1`, id,
	).Scan(&p.ID, &p.RepairID, &p.Code, &p.Description, &p.Quantity, &p.UnitPrice, &p.Subtotal, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("part %d: %w", id, httpx.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByRepair(ctx context.Context, repairID int64) ([]Part, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+partColumns+` FROM parts_used WHERE repair_id = $1 ORDER BY id`, repairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.RepairID, &p.Code, &p.Description, &p.Quantity, &p.UnitPrice, &p.Subtotal, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Part) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO parts_used (repair_id, code, description, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, p.RepairID, p.Code, p.Description, p.Quantity, p.UnitPrice, p.Subtotal).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites quantity, unit price and subtotal in a single statement so
// the stored subtotal can never drift from its factors.
func (r *repository) Update(ctx context.Context, p Part) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE parts_used
		SET code = $1, description = $2, quantity = $3, unit_price = $4, subtotal = $5, updated_at = NOW()
		WHERE id = $6
	`, p.Code, p.Description, p.Quantity, p.UnitPrice, p.Subtotal, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("part %d: %w", p.ID, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM parts_used WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("part %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}
