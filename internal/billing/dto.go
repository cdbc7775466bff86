package billing

type CreateValuationRequest struct {
	RepairID      int64   `json:"repair_id" validate:"required,gt=0"`
	LaborAssignee string  `json:"labor_assignee" validate:"required"`
	LaborAmount   float64 `json:"labor_amount" validate:"gte=0"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`
}

type CreateQuotationRequest struct {
	ValuationID      int64   `json:"valuation_id" validate:"required,gt=0"`
	ManualAdjustment float64 `json:"manual_adjustment"`
}

type UpdateAdjustmentRequest struct {
	ManualAdjustment *float64 `json:"manual_adjustment" validate:"required"`
}

type UpdateQuotationStatusRequest struct {
	Status QuotationStatus `json:"status" validate:"required"`
}

type ListQuotationsRequest struct {
	// Status filters the listing; when empty, COMPLETADA rows are excluded,
	// matching the front-desk working view.
	Status QuotationStatus
}
