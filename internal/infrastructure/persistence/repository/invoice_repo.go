package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// InvoiceRepository implements port.InvoiceRepository
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, supplier_id, amount, terms, invoice_date, due_date,
	discount_pct, discount_days, discount_deadline,
	penalty_rate, penalty_type, status, notes, created_at
`

// Create inserts a new invoice record
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var deadline sql.NullTime
	if invoice.DiscountDeadline != nil {
		deadline = sql.NullTime{Time: *invoice.DiscountDeadline, Valid: true}
	}

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		invoice.ID,
		invoice.SupplierID,
		invoice.Amount,
		invoice.TermsText,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.DiscountPct,
		invoice.DiscountDays,
		deadline,
		invoice.PenaltyRate,
		invoice.PenaltyType,
		invoice.Status,
		invoice.Notes,
		invoice.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	invoice, err := r.scanInvoice(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return invoice, nil
}

// List retrieves all invoices ordered by due date ascending
func (r *InvoiceRepository) List(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY due_date ASC, id ASC`
	return r.queryInvoices(ctx, query)
}

// ListUnpaid retrieves all invoices not yet settled, ordered by due date ascending
func (r *InvoiceRepository) ListUnpaid(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status != ? ORDER BY due_date ASC, id ASC`
	return r.queryInvoices(ctx, query, entity.InvoiceStatusPaid)
}

// MarkPaid sets the terminal PAID status on an invoice
func (r *InvoiceRepository) MarkPaid(ctx context.Context, id string) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, entity.InvoiceStatusPaid, id)
	if err != nil {
		r.logger.Error("Failed to mark invoice paid", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice %s not found", id)
	}

	return nil
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]*entity.Invoice, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := r.scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *InvoiceRepository) scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var deadline sql.NullTime

	err := row.Scan(
		&invoice.ID,
		&invoice.SupplierID,
		&invoice.Amount,
		&invoice.TermsText,
		&invoice.InvoiceDate,
		&invoice.DueDate,
		&invoice.DiscountPct,
		&invoice.DiscountDays,
		&deadline,
		&invoice.PenaltyRate,
		&invoice.PenaltyType,
		&invoice.Status,
		&invoice.Notes,
		&invoice.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		invoice.DiscountDeadline = &deadline.Time
	}

	return &invoice, nil
}

// getExecutor returns appropriate executor based on context
func (r *InvoiceRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type contextKey string

// WithTx returns a context carrying an open transaction. Repository calls
// made with it execute inside that transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, contextKey("tx"), tx)
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
