package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// PaymentRepository implements port.PaymentRepository
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a payment record. The invoice_id column carries a unique
// constraint, so a second settlement of the same invoice fails here.
func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, amount_paid, discount_captured, penalty_paid, paid_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		payment.ID,
		payment.InvoiceID,
		payment.AmountPaid,
		payment.DiscountCaptured,
		payment.PenaltyPaid,
		payment.PaidAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payment", zap.String("invoice_id", payment.InvoiceID), zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByInvoiceID retrieves the payment settling an invoice, if any
func (r *PaymentRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount_paid, discount_captured, penalty_paid, paid_at
		FROM payments
		WHERE invoice_id = ?
	`

	var payment entity.Payment
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, invoiceID).Scan(
		&payment.ID,
		&payment.InvoiceID,
		&payment.AmountPaid,
		&payment.DiscountCaptured,
		&payment.PenaltyPaid,
		&payment.PaidAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get payment by invoice ID", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// List retrieves all payments ordered by payment time descending
func (r *PaymentRepository) List(ctx context.Context) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, amount_paid, discount_captured, penalty_paid, paid_at
		FROM payments
		ORDER BY paid_at DESC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var payment entity.Payment
		err := rows.Scan(
			&payment.ID,
			&payment.InvoiceID,
			&payment.AmountPaid,
			&payment.DiscountCaptured,
			&payment.PenaltyPaid,
			&payment.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}

	return payments, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *PaymentRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.PaymentRepository = (*PaymentRepository)(nil)
