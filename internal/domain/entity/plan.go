package entity

// PlanItem is one line of an optimizer run: the recommended handling for a
// single invoice. Ephemeral output, never persisted.
type PlanItem struct {
	InvoiceID      string  `json:"invoice_id"`
	Priority       string  `json:"priority"`
	Action         string  `json:"action"`
	Reason         string  `json:"reason"`
	DiscountSaving float64 `json:"discount_saving"`
	EAC            *float64 `json:"eac"`

	// Enrichment fields filled by the plan formatter.
	SupplierName string  `json:"supplier_name,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
}

// PaymentPlan is the full result of an optimizer run over the unpaid invoice
// pool and a cash budget.
type PaymentPlan struct {
	Plan         []PlanItem `json:"plan"`
	TotalSavings float64    `json:"total_savings"`
	HealthScore  int        `json:"health_score"`
	Summary      string     `json:"summary"`
}
