package clients

type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required"`
	Company *string `json:"company,omitempty"`
	Phone   string  `json:"phone" validate:"required"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}
