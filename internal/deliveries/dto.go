package deliveries

type CreateDeliveryRequest struct {
	EquipmentID        int64   `json:"equipment_id" validate:"required,gt=0"`
	OfficialNoteNumber *string `json:"official_note_number,omitempty"`
	InternalNoteNumber *string `json:"internal_note_number,omitempty"`
}
