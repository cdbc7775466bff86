package deliveries

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reparaciones-app/reparaciones/internal/platform/db"
	"github.com/reparaciones-app/reparaciones/internal/platform/httpx"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*DeliveryWithDetails, error)
	List(ctx context.Context) ([]DeliveryWithDetails, error)
	Create(ctx context.Context, d Delivery) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const deliverySelect = `
	SELECT d.id, d.equipment_id, d.official_note_number, d.internal_note_number,
	       d.status, d.created_at,
	       e.description, e.tracking_code, c.name, c.phone
	FROM deliveries d
	JOIN equipment e ON e.id = d.equipment_id
	JOIN clients c ON c.id = e.client_id`

func scanDelivery(row pgx.Row) (*DeliveryWithDetails, error) {
	var d DeliveryWithDetails
	err := row.Scan(
		&d.ID, &d.EquipmentID, &d.OfficialNoteNumber, &d.InternalNoteNumber,
		&d.Status, &d.CreatedAt,
		&d.EquipmentDescription, &d.TrackingCode, &d.ClientName, &d.ClientPhone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("delivery: %w", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &d, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*DeliveryWithDetails, error) {
	return scanDelivery(r.pool.QueryRow(ctx, deliverySelect+` WHERE d.id = $1`, id))
}

func (r *repository) List(ctx context.Context) ([]DeliveryWithDetails, error) {
	rows, err := r.pool.Query(ctx, deliverySelect+` ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DeliveryWithDetails
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Create records the delivery and marks the equipment ENTREGADO in the same
// transaction.
func (r *repository) Create(ctx context.Context, d Delivery) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO deliveries (equipment_id, official_note_number, internal_note_number, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, d.EquipmentID, d.OfficialNoteNumber, d.InternalNoteNumber, d.Status).Scan(&id)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE equipment SET status = 'ENTREGADO', updated_at = NOW() WHERE id = $1`,
			d.EquipmentID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("equipment %d: %w", d.EquipmentID, httpx.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
