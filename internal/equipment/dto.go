package equipment

type CreateEquipmentRequest struct {
	ClientID        int64   `json:"client_id" validate:"required,gt=0"`
	Description     string  `json:"description" validate:"required"`
	EquipmentNumber *string `json:"equipment_number,omitempty"`
}

type UpdateEquipmentRequest struct {
	Description     *string `json:"description,omitempty" validate:"omitempty,min=1"`
	EquipmentNumber *string `json:"equipment_number,omitempty"`
}
