package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/platform/db"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for valuations and
// quotations. The two update operations issued by the recalculation engine
// run through WithTx so they land atomically.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error

	SumPartsCost(ctx context.Context, repairID int64) (float64, error)

	GetValuation(ctx context.Context, id int64) (*Valuation, error)
	GetValuationByRepair(ctx context.Context, repairID int64) (*Valuation, error)
	ListValuations(ctx context.Context) ([]ValuationWithDetails, error)
	CreateValuation(ctx context.Context, v Valuation) (int64, error)
	UpdateValuationAmounts(ctx context.Context, id int64, partsCost, subtotal float64) error

	GetQuotation(ctx context.Context, id int64) (*Quotation, error)
	GetQuotationByValuation(ctx context.Context, valuationID int64) (*Quotation, error)
	ListQuotations(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, error)
	CreateQuotation(ctx context.Context, q Quotation) (int64, error)
	UpdateQuotationAmounts(ctx context.Context, id int64, originalAmount, finalAmount float64) error
	UpdateQuotationAdjustment(ctx context.Context, id int64, adjustment, finalAmount float64) error
	UpdateQuotationStatus(ctx context.Context, id int64, status QuotationStatus) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a repository on top of the shared pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

// SumPartsCost aggregates the persisted subtotals of every part row for a
// repair; zero when none exist.
func (r *repository) SumPartsCost(ctx context.Context, repairID int64) (float64, error) {
	var sum float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(subtotal), 0) FROM parts_used WHERE repair_id = $1`,
		repairID,
	).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum parts cost: %w", err)
	}
	return sum, nil
}

const valuationColumns = `id, repair_id, parts_cost, labor_assignee, labor_amount, subtotal, invoice_number, created_at, updated_at`

func scanValuation(row pgx.Row) (*Valuation, error) {
	var v Valuation
	err := row.Scan(
		&v.ID, &v.RepairID, &v.PartsCost, &v.LaborAssignee, &v.LaborAmount,
		&v.Subtotal, &v.InvoiceNumber, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("valuation: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) GetValuation(ctx context.Context, id int64) (*Valuation, error) {
	return scanValuation(r.db.QueryRow(ctx,
		`SELECT `+valuationColumns+` FROM valuations WHERE id = $1`, id))
}

func (r *repository) GetValuationByRepair(ctx context.Context, repairID int64) (*Valuation, error) {
	return scanValuation(r.db.QueryRow(ctx,
		`SELECT `+valuationColumns+` FROM valuations WHERE repair_id = $1`, repairID))
}

func (r *repository) ListValuations(ctx context.Context) ([]ValuationWithDetails, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.id, v.repair_id, v.parts_cost, v.labor_assignee, v.labor_amount,
		       v.subtotal, v.invoice_number, v.created_at, v.updated_at,
		       r.status, e.description, c.name, q.id
		FROM valuations v
		JOIN repairs r ON r.id = v.repair_id
		JOIN equipment e ON e.id = r.equipment_id
		JOIN clients c ON c.id = e.client_id
		LEFT JOIN quotations q ON q.valuation_id = v.id
		ORDER BY v.created_at DESC, v.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ValuationWithDetails
	for rows.Next() {
		var vd ValuationWithDetails
		var quotationID *int64
		err := rows.Scan(
			&vd.ID, &vd.RepairID, &vd.PartsCost, &vd.LaborAssignee, &vd.LaborAmount,
			&vd.Subtotal, &vd.InvoiceNumber, &vd.CreatedAt, &vd.UpdatedAt,
			&vd.RepairStatus, &vd.EquipmentDesc, &vd.ClientName, &quotationID,
		)
		if err != nil {
			return nil, err
		}
		vd.QuotationID = quotationID
		vd.HasQuotation = quotationID != nil
		out = append(out, vd)
	}
	return out, rows.Err()
}

func (r *repository) CreateValuation(ctx context.Context, v Valuation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO valuations (repair_id, parts_cost, labor_assignee, labor_amount, subtotal, invoice_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, v.RepairID, v.PartsCost, v.LaborAssignee, v.LaborAmount, v.Subtotal, v.InvoiceNumber).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("valuation for repair %d: %w", v.RepairID, httpx.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateValuationAmounts(ctx context.Context, id int64, partsCost, subtotal float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE valuations SET parts_cost = $1, subtotal = $2, updated_at = NOW() WHERE id = $3
	`, partsCost, subtotal, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("valuation %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

const quotationColumns = `id, valuation_id, original_amount, manual_adjustment, final_amount, status, created_at, updated_at`

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	err := row.Scan(
		&q.ID, &q.ValuationID, &q.OriginalAmount, &q.ManualAdjustment,
		&q.FinalAmount, &q.Status, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &q, nil
}

func (r *repository) GetQuotation(ctx context.Context, id int64) (*Quotation, error) {
	return scanQuotation(r.db.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE id = $1`, id))
}

func (r *repository) GetQuotationByValuation(ctx context.Context, valuationID int64) (*Quotation, error) {
	return scanQuotation(r.db.QueryRow(ctx,
		`SELECT `+quotationColumns+` FROM quotations WHERE valuation_id = $1`, valuationID))
}

func (r *repository) ListQuotations(ctx context.Context, req ListQuotationsRequest) ([]QuotationWithDetails, error) {
	query := `
		SELECT q.id, q.valuation_id, q.original_amount, q.manual_adjustment,
		       q.final_amount, q.status, q.created_at, q.updated_at,
		       v.repair_id, e.description, c.name
		FROM quotations q
		JOIN valuations v ON v.id = q.valuation_id
		JOIN repairs r ON r.id = v.repair_id
		JOIN equipment e ON e.id = r.equipment_id
		JOIN clients c ON c.id = e.client_id
	`
	var args []interface{}
	if req.Status != "" {
		query += ` WHERE q.status = $1`
		args = append(args, req.Status)
	} else {
		// The default working view hides quotations already settled.
		query += ` WHERE q.status <> $1`
		args = append(args, QuotationStatusCompletada)
	}
	query += ` ORDER BY q.created_at DESC, q.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuotationWithDetails
	for rows.Next() {
		var qd QuotationWithDetails
		err := rows.Scan(
			&qd.ID, &qd.ValuationID, &qd.OriginalAmount, &qd.ManualAdjustment,
			&qd.FinalAmount, &qd.Status, &qd.CreatedAt, &qd.UpdatedAt,
			&qd.RepairID, &qd.EquipmentDesc, &qd.ClientName,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, qd)
	}
	return out, rows.Err()
}

func (r *repository) CreateQuotation(ctx context.Context, q Quotation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO quotations (valuation_id, original_amount, manual_adjustment, final_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, q.ValuationID, q.OriginalAmount, q.ManualAdjustment, q.FinalAmount, q.Status).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("quotation for valuation %d: %w", q.ValuationID, httpx.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateQuotationAmounts(ctx context.Context, id int64, originalAmount, finalAmount float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quotations SET original_amount = $1, final_amount = $2, updated_at = NOW() WHERE id = $3
	`, originalAmount, finalAmount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdateQuotationAdjustment(ctx context.Context, id int64, adjustment, finalAmount float64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quotations SET manual_adjustment = $1, final_amount = $2, updated_at = NOW() WHERE id = $3
	`, adjustment, finalAmount, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func (r *repository) UpdateQuotationStatus(ctx context.Context, id int64, status QuotationStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quotations SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quotation %d: %w", id, httpx.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
