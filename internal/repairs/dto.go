package repairs

import "time"

type CreateRepairRequest struct {
	EquipmentID       int64      `json:"equipment_id" validate:"required,gt=0"`
	Electrician       string     `json:"electrician" validate:"required"`
	SealNumber        *string    `json:"seal_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

type UpdateRepairRequest struct {
	Electrician       *string    `json:"electrician,omitempty" validate:"omitempty,min=1"`
	SealNumber        *string    `json:"seal_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
}

type ChangeStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}
