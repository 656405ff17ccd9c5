package entity

import "time"

// CreditTerm is the structured form of a free-text credit term string such as
// "2/10 Net 30". It is derived at invoice creation and frozen onto the invoice
// record: NetDays is baked into DueDate, DiscountPct and DiscountDays are
// stored alongside.
type CreditTerm struct {
	NetDays      int     `json:"net_days"`
	DiscountDays int     `json:"discount_days"`
	DiscountPct  float64 `json:"discount_pct"`
}

// Invoice represents an outstanding supplier invoice.
//
// Invariants: DueDate = InvoiceDate + NetDays(TermsText); DiscountDeadline =
// InvoiceDate + DiscountDays when DiscountPct > 0, else nil. Status is derived
// from DueDate vs. the current date except once PAID, which is terminal.
type Invoice struct {
	ID               string     `json:"id"`
	SupplierID       string     `json:"supplier_id"`
	Amount           float64    `json:"amount"`
	TermsText        string     `json:"terms"`
	InvoiceDate      time.Time  `json:"invoice_date"`
	DueDate          time.Time  `json:"due_date"`
	DiscountPct      float64    `json:"discount_pct"`
	DiscountDays     int        `json:"discount_days"`
	DiscountDeadline *time.Time `json:"discount_deadline,omitempty"`
	PenaltyRate      float64    `json:"penalty_rate"`
	PenaltyType      string     `json:"penalty_type"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsPaid reports whether the invoice has reached the terminal PAID state.
// The stored status is authoritative only for this flag; every other status
// is recomputed from dates.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// HasDiscount reports whether the invoice carries an early-payment discount.
func (i *Invoice) HasDiscount() bool {
	return i.DiscountPct > 0 && i.DiscountDeadline != nil
}
