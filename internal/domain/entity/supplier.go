package entity

import "time"

// Supplier represents a vendor the business buys from. Suppliers own zero or
// more invoices; invoices hold a back-reference and survive supplier deletion.
type Supplier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
