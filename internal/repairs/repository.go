package repairs

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/parts"
	"github.com/reparaciones-app/reparaciones/internal/platform/db"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*RepairDetail, error)
	List(ctx context.Context) ([]RepairSummary, error)
	Create(ctx context.Context, r Repair) (int64, error)
	Update(ctx context.Context, r Repair) error
	ChangeStatus(ctx context.Context, id int64, to Status) (bool, error)
	History(ctx context.Context, repairID int64) ([]StatusChange, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const repairSummarySelect = `
	SELECT r.id, r.equipment_id, r.electrician, r.seal_number, r.estimated_delivery,
	       r.status, r.created_at, r.updated_at,
	       e.description, e.tracking_code, c.name, c.phone,
	       q.final_amount
	FROM repairs r
	JOIN equipment e ON e.id = r.equipment_id
	JOIN clients c ON c.id = e.client_id
	LEFT JOIN valuations v ON v.repair_id = r.id
	LEFT JOIN quotations q ON q.valuation_id = v.id`

func scanSummary(row pgx.Row) (*RepairSummary, error) {
	var s RepairSummary
	err := row.Scan(
		&s.ID, &s.EquipmentID, &s.Electrician, &s.SealNumber, &s.EstimatedDelivery,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
		&s.EquipmentDescription, &s.TrackingCode, &s.ClientName, &s.ClientPhone,
		&s.FinalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repair: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

// Get expands a repair with its parts and, when present, the valuation and
// quotation rows. Amount columns come straight from storage; nothing is
// recomputed on the read path.
func (r *repository) Get(ctx context.Context, id int64) (*RepairDetail, error) {
	summary, err := scanSummary(r.pool.QueryRow(ctx, repairSummarySelect+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, err
	}

	detail := RepairDetail{RepairSummary: *summary, Parts: []parts.Part{}}

	rows, err := r.pool.Query(ctx, `
		SELECT id, repair_id, code, description, quantity, unit_price, subtotal, created_at, updated_at
		FROM parts_used WHERE repair_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p parts.Part
		if err := rows.Scan(&p.ID, &p.RepairID, &p.Code, &p.Description, &p.Quantity, &p.UnitPrice, &p.Subtotal, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		detail.Parts = append(detail.Parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var v billing.Valuation
	err = r.pool.QueryRow(ctx, `
		SELECT id, repair_id, parts_cost, labor_assignee, labor_amount, subtotal, invoice_number, created_at, updated_at
		FROM valuations WHERE repair_id = $1`, id,
	).Scan(&v.ID, &v.RepairID, &v.PartsCost, &v.LaborAssignee, &v.LaborAmount, &v.Subtotal, &v.InvoiceNumber, &v.CreatedAt, &v.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return &detail, nil
	case err != nil:
		return nil, err
	}
	detail.Valuation = &v

	var q billing.Quotation
	err = r.pool.QueryRow(ctx, `
		SELECT id, valuation_id, original_amount, manual_adjustment, final_amount, status, created_at, updated_at
		FROM quotations WHERE valuation_id = $1`, v.ID,
	).Scan(&q.ID, &q.ValuationID, &q.OriginalAmount, &q.ManualAdjustment, &q.FinalAmount, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return &detail, nil
	case err != nil:
		return nil, err
	}
	detail.Quotation = &q

	return &detail, nil
}

func (r *repository) List(ctx context.Context) ([]RepairSummary, error) {
	rows, err := r.pool.Query(ctx, repairSummarySelect+` ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RepairSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Create inserts the repair and moves the equipment into EN_REPARACION in the
// same transaction: a repair never exists against equipment still marked as
// merely received.
func (r *repository) Create(ctx context.Context, rep Repair) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO repairs (equipment_id, electrician, seal_number, estimated_delivery, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, rep.EquipmentID, rep.Electrician, rep.SealNumber, rep.EstimatedDelivery, rep.Status).Scan(&id)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE equipment SET status = 'EN_REPARACION', updated_at = NOW() WHERE id = $1`,
			rep.EquipmentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("equipment %d: %w", rep.EquipmentID, httpx.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, rep Repair) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE repairs
		SET electrician = $1, seal_number = $2, estimated_delivery = $3, updated_at = NOW()
		WHERE id = $4
	`, rep.Electrician, rep.SealNumber, rep.EstimatedDelivery, rep.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repair %d: %w", rep.ID, httpx.ErrNotFound)
	}
	return nil
}

// ChangeStatus updates the repair status and appends a history row, both in
// one transaction. A no-op change (same status) writes no history and reports
// changed=false.
func (r *repository) ChangeStatus(ctx context.Context, id int64, to Status) (bool, error) {
	var changed bool
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current Status
		err := tx.QueryRow(ctx,
			`SELECT status FROM repairs WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("repair %d: %w", id, httpx.ErrNotFound)
			}
			return err
		}

		if current == to {
			return nil
		}

		if _, err := tx.Exec(ctx,
			`UPDATE repairs SET status = $1, updated_at = NOW() WHERE id = $2`, to, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO status_history (repair_id, from_status, to_status)
			VALUES ($1, $2, $3)
		`, id, current, to); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (r *repository) History(ctx context.Context, repairID int64) ([]StatusChange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, repair_id, from_status, to_status, changed_at
		FROM status_history WHERE repair_id = $1 ORDER BY changed_at DESC, id DESC`, repairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusChange
	for rows.Next() {
		var sc StatusChange
		if err := rows.Scan(&sc.ID, &sc.RepairID, &sc.FromStatus, &sc.ToStatus, &sc.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
