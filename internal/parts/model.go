package parts

import "time"

// Part is one line item of a physical part consumed during a repair.
// Subtotal is persisted redundantly and rewritten together with quantity and
// unit price in the same statement, so readers never see it stale.
type Part struct {
	ID          int64     `json:"id"`
	RepairID    int64     `json:"repair_id"`
	Code        string    `json:"code"`
	Description *string   `json:"description,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Subtotal    float64   `json:"subtotal"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
