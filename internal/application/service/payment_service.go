package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/finance"
)

var (
	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")
	ErrInsufficientFunds  = errors.New("insufficient cash balance")
)

// PaymentResult is what a recorded payment settled to.
type PaymentResult struct {
	Payment          *entity.Payment
	TotalPaid        float64
	DiscountCaptured float64
	PenaltyPaid      float64
	NewCashBalance   float64
}

// PaymentService records invoice settlements. Discount capture and penalty
// accrual are computed exactly once, at payment time, and frozen into the
// immutable payment row; the cash balance is debited as an explicit transfer.
type PaymentService interface {
	MarkPaid(ctx context.Context, invoiceID string, today time.Time) (*PaymentResult, error)
}

type paymentServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	paymentRepo port.PaymentRepository
	profileRepo port.ProfileRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	invoiceRepo port.InvoiceRepository,
	paymentRepo port.PaymentRepository,
	profileRepo port.ProfileRepository,
	txManager port.TransactionManager,
	logger Logger,
) PaymentService {
	return &paymentServiceImpl{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

func (s *paymentServiceImpl) MarkPaid(ctx context.Context, invoiceID string, today time.Time) (*PaymentResult, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		s.logger.Error("Failed to get invoice for payment", "error", err, "invoice_id", invoiceID)
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	if invoice.IsPaid() {
		return nil, ErrInvoiceAlreadyPaid
	}
	if existing, err := s.paymentRepo.GetByInvoiceID(ctx, invoiceID); err != nil {
		return nil, fmt.Errorf("check existing payment: %w", err)
	} else if existing != nil {
		return nil, ErrInvoiceAlreadyPaid
	}

	discountCaptured := finance.DiscountAmount(invoice, today)
	penalty := finance.PenaltyAccrued(invoice, today)
	totalPaid := invoice.Amount - discountCaptured + penalty

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile.CashBalance < totalPaid {
		s.logger.Warn("Payment rejected for insufficient funds",
			"invoice_id", invoiceID,
			"cash_balance", profile.CashBalance,
			"total_due", totalPaid)
		return nil, ErrInsufficientFunds
	}

	payment := &entity.Payment{
		ID:               uuid.NewString(),
		InvoiceID:        invoiceID,
		AmountPaid:       totalPaid,
		DiscountCaptured: discountCaptured,
		PenaltyPaid:      penalty,
		PaidAt:           time.Now().UTC(),
	}

	// The payment row, the status flip and the balance debit commit or roll
	// back together. A payment row without the PAID status would block every
	// retry on the duplicate guard above.
	var newBalance float64
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		if err := s.invoiceRepo.MarkPaid(ctx, invoiceID); err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		}
		newBalance, err = s.profileRepo.AdjustCashBalance(ctx, -totalPaid)
		if err != nil {
			return fmt.Errorf("debit cash balance: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record payment", "error", err, "invoice_id", invoiceID)
		return nil, err
	}

	s.logger.Info("Payment recorded",
		"invoice_id", invoiceID,
		"amount_paid", totalPaid,
		"discount_captured", discountCaptured,
		"penalty_paid", penalty,
		"cash_balance", newBalance)

	return &PaymentResult{
		Payment:          payment,
		TotalPaid:        totalPaid,
		DiscountCaptured: discountCaptured,
		PenaltyPaid:      penalty,
		NewCashBalance:   newBalance,
	}, nil
}
