package entity

import "time"

// Payment records the settlement of a single invoice. At most one payment
// exists per invoice; the row is immutable once written.
//
// AmountPaid = invoice amount - DiscountCaptured + PenaltyPaid, all computed
// once at payment time and frozen here.
type Payment struct {
	ID               string    `json:"id"`
	InvoiceID        string    `json:"invoice_id"`
	AmountPaid       float64   `json:"amount_paid"`
	DiscountCaptured float64   `json:"discount_captured"`
	PenaltyPaid      float64   `json:"penalty_paid"`
	PaidAt           time.Time `json:"paid_at"`
}

// Profile holds the business's working-capital position. The cash balance is
// mutated only by explicit balance transfers when a payment is recorded, never
// by the optimizer.
type Profile struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"business_name"`
	CashBalance  float64   `json:"cash_balance"`
	UpdatedAt    time.Time `json:"updated_at"`
}
