// Package port defines the persistence contracts the application services
// depend on. Implementations live under internal/infrastructure.
package port

import (
	"context"
	"time"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// SupplierRepository defines persistence operations for Supplier
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)

	// List returns all invoices ordered by due date ascending.
	List(ctx context.Context) ([]*entity.Invoice, error)

	// ListUnpaid returns all invoices whose stored status is not PAID,
	// ordered by due date ascending.
	ListUnpaid(ctx context.Context) ([]*entity.Invoice, error)

	// MarkPaid sets the terminal PAID status on an invoice.
	MarkPaid(ctx context.Context, id string) error
}

// PaymentRepository defines persistence operations for Payment
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.Payment, error)
	List(ctx context.Context) ([]*entity.Payment, error)
}

// AlertRepository defines persistence operations for Alert
type AlertRepository interface {
	CreateBatch(ctx context.Context, alerts []*entity.Alert) error
	GetDue(ctx context.Context, asOf time.Time, limit int) ([]*entity.Alert, error)
	MarkTriggered(ctx context.Context, id string) error
	ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Alert, error)
}

// TransactionManager runs a function with every repository call made through
// its context executing inside a single database transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProfileRepository defines persistence operations for the business profile
// and its cash balance.
type ProfileRepository interface {
	Get(ctx context.Context) (*entity.Profile, error)

	// AdjustCashBalance applies a signed delta to the cash balance and
	// returns the new balance. Used as an explicit balance transfer when a
	// payment is recorded.
	AdjustCashBalance(ctx context.Context, delta float64) (float64, error)

	SetCashBalance(ctx context.Context, balance float64) error
}
