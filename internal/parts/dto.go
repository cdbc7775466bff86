package parts

type CreatePartRequest struct {
	RepairID    int64    `json:"repair_id" validate:"required,gt=0"`
	Code        string   `json:"code" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Quantity    int      `json:"quantity" validate:"required,gte=1"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
}

// UpdatePartRequest enumerates exactly which fields a partial update may
// touch; anything else in the payload is ignored.
type UpdatePartRequest struct {
	Code        *string  `json:"code,omitempty" validate:"omitempty,min=1"`
	Description *string  `json:"description,omitempty"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice   *float64 `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
}
