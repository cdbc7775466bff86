package tracking

import "time"

// The tracking view is the public face of a repair: what a client sees when
// they enter the code from their reception slip. No amounts and no internal
// staff notes ever cross this boundary.

type EquipmentView struct {
	ID           int64     `json:"id"`
	Description  string    `json:"description"`
	TrackingCode string    `json:"tracking_code"`
	ReceivedAt   time.Time `json:"received_at"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
}

type RepairView struct {
	ID          int64     `json:"id"`
	Status      string    `json:"status"`
	Electrician string    `json:"electrician"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryView struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
}

type Result struct {
	Equipment EquipmentView `json:"equipment"`
	Repair    RepairView    `json:"repair"`
	History   []HistoryView `json:"history"`
}
