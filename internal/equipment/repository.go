package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*EquipmentWithClient, error)
	GetByTrackingCode(ctx context.Context, code string) (*EquipmentWithClient, error)
	List(ctx context.Context) ([]EquipmentWithClient, error)
	Create(ctx context.Context, e Equipment) (int64, error)
	Update(ctx context.Context, e Equipment) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const equipmentSelect = `
	SELECT e.id, e.client_id, e.description, e.equipment_number, e.tracking_code,
	       e.status, e.received_at, e.created_at, e.updated_at,
	       c.name, c.phone
	FROM equipment e
	JOIN clients c ON c.id = e.client_id`

func scanEquipment(row pgx.Row) (*EquipmentWithClient, error) {
	var e EquipmentWithClient
	err := row.Scan(
		&e.ID, &e.ClientID, &e.Description, &e.EquipmentNumber, &e.TrackingCode,
		&e.Status, &e.ReceivedAt, &e.CreatedAt, &e.UpdatedAt,
		&e.ClientName, &e.ClientPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("equipment: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*EquipmentWithClient, error) {
	return scanEquipment(r.pool.QueryRow(ctx, equipmentSelect+` WHERE e.id = $1`, id))
}

func (r *repository) GetByTrackingCode(ctx context.Context, code string) (*EquipmentWithClient, error) {
	return scanEquipment(r.pool.QueryRow(ctx, equipmentSelect+` WHERE e.tracking_code = $1`, code))
}

func (r *repository) List(ctx context.Context) ([]EquipmentWithClient, error) {
	rows, err := r.pool.Query(ctx, equipmentSelect+` ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquipmentWithClient
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, e Equipment) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO equipment (client_id, description, equipment_number, tracking_code, status, received_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id
	`, e.ClientID, e.Description, e.EquipmentNumber, e.TrackingCode, e.Status).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("equipment tracking code %s: %w", e.TrackingCode, httpx.ErrDuplicate)
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, e Equipment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE equipment
		SET description = $1, equipment_number = $2, updated_at = NOW()
		WHERE id = $3
	`, e.Description, e.EquipmentNumber, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("equipment %d: %w", e.ID, httpx.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
