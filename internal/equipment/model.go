package equipment

import "time"

// Status follows the equipment through the shop: received at the counter,
// attached to an active repair, handed back to the client.
type Status string

const (
	StatusReceived  Status = "RECIBIDO"
	StatusInRepair  Status = "EN_REPARACION"
	StatusDelivered Status = "ENTREGADO"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusReceived, StatusInRepair, StatusDelivered:
		return true
	}
	return false
}

// Equipment is a physical unit left at the shop. TrackingCode is the public
// identifier printed on the reception slip; clients use it to follow their
// repair without authenticating.
type Equipment struct {
	ID              int64     `json:"id"`
	ClientID        int64     `json:"client_id"`
	Description     string    `json:"description"`
	EquipmentNumber *string   `json:"equipment_number,omitempty"`
	TrackingCode    string    `json:"tracking_code"`
	Status          Status    `json:"status"`
	ReceivedAt      time.Time `json:"received_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EquipmentWithClient widens a row with the owner fields the listing screens
// show alongside each unit.
type EquipmentWithClient struct {
	Equipment
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}
