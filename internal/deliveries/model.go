package deliveries

import "time"

type Status string

const StatusCompleted Status = "COMPLETADA"

// Delivery records the hand-back of a piece of equipment, with the official
// and internal dispatch note numbers the counter issues.
type Delivery struct {
	ID                 int64     `json:"id"`
	EquipmentID        int64     `json:"equipment_id"`
	OfficialNoteNumber *string   `json:"official_note_number,omitempty"`
	InternalNoteNumber *string   `json:"internal_note_number,omitempty"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

type DeliveryWithDetails struct {
	Delivery
	EquipmentDescription string `json:"equipment_description"`
	TrackingCode         string `json:"tracking_code"`
	ClientName           string `json:"client_name"`
	ClientPhone          string `json:"client_phone"`
}
