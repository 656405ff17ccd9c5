package entity

import "time"

// Alert is a scheduled reminder tied to an invoice: due-date countdowns at 7,
// 3 and 0 days, and a discount-expiry warning the day before the deadline.
// Alerts are inserted when the invoice is created and fire when TriggerAt
// passes.
type Alert struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"invoice_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	TriggerAt time.Time `json:"trigger_at"`
	CreatedAt time.Time `json:"created_at"`
}
