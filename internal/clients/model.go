package clients

import "time"

// Client is the owner of one or more pieces of equipment in the shop.
type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company,omitempty"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
