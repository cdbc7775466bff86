package repairs

import (
	"time"

	"github.com/reparaciones-app/reparaciones/internal/billing"
	"github.com/reparaciones-app/reparaciones/internal/parts"
)

// Status tracks a repair through the shop workflow, from reception to close.
type Status string

const (
	StatusReceived       Status = "RECIBIDO"
	StatusDiagnosis      Status = "DIAGNOSTICO"
	StatusAwaitingParts  Status = "ESPERANDO_REPUESTOS"
	StatusInRepair       Status = "EN_REPARACION"
	StatusSealed         Status = "PRECINTADO"
	StatusValuated       Status = "VALORIZADO"
	StatusQuoted         Status = "COTIZADO"
	StatusApproved       Status = "APROBADO"
	StatusInvoiced       Status = "FACTURADO"
	StatusReadyForPickup Status = "LISTO_PARA_RETIRO"
	StatusDelivered      Status = "ENTREGADO"
	StatusClosed         Status = "CERRADO"
)

var validStatuses = map[Status]struct{}{
	StatusReceived: {}, StatusDiagnosis: {}, StatusAwaitingParts: {},
	StatusInRepair: {}, StatusSealed: {}, StatusValuated: {},
	StatusQuoted: {}, StatusApproved: {}, StatusInvoiced: {},
	StatusReadyForPickup: {}, StatusDelivered: {}, StatusClosed: {},
}

func ValidStatus(s Status) bool {
	_, ok := validStatuses[s]
	return ok
}

type Repair struct {
	ID                int64      `json:"id"`
	EquipmentID       int64      `json:"equipment_id"`
	Electrician       string     `json:"electrician"`
	SealNumber        *string    `json:"seal_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// StatusChange is one append-only history entry; rows are written only when
// the status actually changes.
type StatusChange struct {
	ID         int64     `json:"id"`
	RepairID   int64     `json:"repair_id"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

// RepairSummary is a listing row: the repair plus the equipment and client
// columns the board view shows.
type RepairSummary struct {
	Repair
	EquipmentDescription string   `json:"equipment_description"`
	TrackingCode         string   `json:"tracking_code"`
	ClientName           string   `json:"client_name"`
	ClientPhone          string   `json:"client_phone"`
	FinalAmount          *float64 `json:"final_amount,omitempty"`
}

// RepairDetail is the fully expanded view: parts consumed plus the valuation
// and quotation, when they exist.
type RepairDetail struct {
	RepairSummary
	Parts     []parts.Part       `json:"parts"`
	Valuation *billing.Valuation `json:"valuation,omitempty"`
	Quotation *billing.Quotation `json:"quotation,omitempty"`
}
