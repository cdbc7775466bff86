package billing

import (
	"math"
	"time"
)

type QuotationStatus string

const (
	QuotationStatusPendiente  QuotationStatus = "PENDIENTE"
	QuotationStatusEnviada    QuotationStatus = "ENVIADA"
	QuotationStatusAprobada   QuotationStatus = "APROBADA"
	QuotationStatusCompletada QuotationStatus = "COMPLETADA"
)

// ValidQuotationStatus reports whether s is a known quotation status.
func ValidQuotationStatus(s QuotationStatus) bool {
	switch s {
	case QuotationStatusPendiente, QuotationStatusEnviada, QuotationStatusAprobada, QuotationStatusCompletada:
		return true
	}
	return false
}

// Valuation is the locked-in cost breakdown (parts + labor) for a repair.
// PartsCost and Subtotal are derived and only ever written by the
// recalculation engine after creation.
type Valuation struct {
	ID            int64     `json:"id"`
	RepairID      int64     `json:"repair_id"`
	PartsCost     float64   `json:"parts_cost"`
	LaborAssignee string    `json:"labor_assignee"`
	LaborAmount   float64   `json:"labor_amount"`
	Subtotal      float64   `json:"subtotal"`
	InvoiceNumber *string   `json:"invoice_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Quotation is the customer-facing price derived from a valuation plus a
// manual adjustment. OriginalAmount mirrors the valuation subtotal as of the
// last recompute; ManualAdjustment is a standing staff decision that the
// recompute path never touches.
type Quotation struct {
	ID               int64           `json:"id"`
	ValuationID      int64           `json:"valuation_id"`
	OriginalAmount   float64         `json:"original_amount"`
	ManualAdjustment float64         `json:"manual_adjustment"`
	FinalAmount      float64         `json:"final_amount"`
	Status           QuotationStatus `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ValuationWithDetails carries list-view context resolved by joins.
type ValuationWithDetails struct {
	Valuation
	RepairStatus  string `json:"repair_status"`
	EquipmentDesc string `json:"equipment_description"`
	ClientName    string `json:"client_name"`
	HasQuotation  bool   `json:"has_quotation"`
	QuotationID   *int64 `json:"quotation_id,omitempty"`
}

// QuotationWithDetails carries list-view context resolved by joins.
type QuotationWithDetails struct {
	Quotation
	RepairID      int64  `json:"repair_id"`
	EquipmentDesc string `json:"equipment_description"`
	ClientName    string `json:"client_name"`
}

// RecalcResult is what the recalculation engine hands back: the valuation it
// rewrote and the quotation, nil when the repair has no quotation yet.
type RecalcResult struct {
	Valuation *Valuation `json:"valuation"`
	Quotation *Quotation `json:"quotation,omitempty"`
}

// RoundCents rounds a monetary amount to two decimals before it is persisted,
// keeping stored derived values free of float accumulation noise.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
