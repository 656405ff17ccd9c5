package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

type mockPaymentRepo struct {
	payments  []*entity.Payment
	createErr error
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.payments = append(m.payments, payment)
	return nil
}

func (m *mockPaymentRepo) GetByInvoiceID(ctx context.Context, invoiceID string) (*entity.Payment, error) {
	for _, p := range m.payments {
		if p.InvoiceID == invoiceID {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPaymentRepo) List(ctx context.Context) ([]*entity.Payment, error) {
	return m.payments, nil
}

type mockProfileRepo struct {
	profile *entity.Profile
}

func newMockProfileRepo(balance float64) *mockProfileRepo {
	return &mockProfileRepo{profile: &entity.Profile{ID: "prof-1", BusinessName: "Test Traders", CashBalance: balance}}
}

func (m *mockProfileRepo) Get(ctx context.Context) (*entity.Profile, error) {
	return m.profile, nil
}

func (m *mockProfileRepo) AdjustCashBalance(ctx context.Context, delta float64) (float64, error) {
	m.profile.CashBalance += delta
	return m.profile.CashBalance, nil
}

func (m *mockProfileRepo) SetCashBalance(ctx context.Context, balance float64) error {
	m.profile.CashBalance = balance
	return nil
}

// mockTxManager runs fn directly; rollback, when set, undoes the mocks'
// uncommitted writes after a failure, the way a real transaction would.
type mockTxManager struct {
	calls    int
	rollback func()
}

func (m *mockTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		if m.rollback != nil {
			m.rollback()
		}
		return err
	}
	return nil
}

func deadline(t time.Time) *time.Time { return &t }

func TestPaymentService_MarkPaid_CapturesDiscount(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:               "inv-1",
			Amount:           150000,
			DiscountPct:      3,
			DiscountDeadline: deadline(date(2026, 3, 12)),
			DueDate:          date(2026, 4, 1),
			Status:           entity.InvoiceStatusActive,
		}},
	}
	paymentRepo := &mockPaymentRepo{}
	profileRepo := newMockProfileRepo(200000)

	service := NewPaymentService(invoiceRepo, paymentRepo, profileRepo, &mockTxManager{}, &mockLogger{})

	result, err := service.MarkPaid(context.Background(), "inv-1", today)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if result.DiscountCaptured != 4500 {
		t.Errorf("MarkPaid() DiscountCaptured = %v, want 4500", result.DiscountCaptured)
	}
	if result.TotalPaid != 145500 {
		t.Errorf("MarkPaid() TotalPaid = %v, want 145500", result.TotalPaid)
	}
	if result.PenaltyPaid != 0 {
		t.Errorf("MarkPaid() PenaltyPaid = %v, want 0", result.PenaltyPaid)
	}
	if result.NewCashBalance != 54500 {
		t.Errorf("MarkPaid() NewCashBalance = %v, want 54500", result.NewCashBalance)
	}
	if !invoiceRepo.invoices[0].IsPaid() {
		t.Error("MarkPaid() did not mark the invoice PAID")
	}
	if len(paymentRepo.payments) != 1 {
		t.Fatalf("MarkPaid() recorded %d payments, want 1", len(paymentRepo.payments))
	}
	if paymentRepo.payments[0].AmountPaid != 145500 {
		t.Errorf("payment AmountPaid = %v, want 145500", paymentRepo.payments[0].AmountPaid)
	}
}

func TestPaymentService_MarkPaid_MissedDiscount(t *testing.T) {
	// Deadline is today, so the window is already closed.
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:               "inv-1",
			Amount:           10000,
			DiscountPct:      2,
			DiscountDeadline: deadline(today),
			DueDate:          date(2026, 4, 1),
			Status:           entity.InvoiceStatusActive,
		}},
	}
	profileRepo := newMockProfileRepo(50000)

	service := NewPaymentService(invoiceRepo, &mockPaymentRepo{}, profileRepo, &mockTxManager{}, &mockLogger{})

	result, err := service.MarkPaid(context.Background(), "inv-1", today)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if result.DiscountCaptured != 0 {
		t.Errorf("MarkPaid() DiscountCaptured = %v, want 0", result.DiscountCaptured)
	}
	if result.TotalPaid != 10000 {
		t.Errorf("MarkPaid() TotalPaid = %v, want 10000", result.TotalPaid)
	}
}

func TestPaymentService_MarkPaid_AddsAccruedPenalty(t *testing.T) {
	// 5 days overdue at 1% daily on 32000 is 1600.
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:          "inv-1",
			Amount:      32000,
			DueDate:     date(2026, 3, 5),
			PenaltyRate: 1,
			PenaltyType: entity.PenaltyTypeDaily,
			Status:      entity.InvoiceStatusOverdue,
		}},
	}
	profileRepo := newMockProfileRepo(50000)

	service := NewPaymentService(invoiceRepo, &mockPaymentRepo{}, profileRepo, &mockTxManager{}, &mockLogger{})

	result, err := service.MarkPaid(context.Background(), "inv-1", today)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if result.PenaltyPaid != 1600 {
		t.Errorf("MarkPaid() PenaltyPaid = %v, want 1600", result.PenaltyPaid)
	}
	if result.TotalPaid != 33600 {
		t.Errorf("MarkPaid() TotalPaid = %v, want 33600", result.TotalPaid)
	}
}

func TestPaymentService_MarkPaid_InsufficientFunds(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:      "inv-1",
			Amount:  100000,
			DueDate: date(2026, 4, 1),
			Status:  entity.InvoiceStatusActive,
		}},
	}
	paymentRepo := &mockPaymentRepo{}
	profileRepo := newMockProfileRepo(99999)

	service := NewPaymentService(invoiceRepo, paymentRepo, profileRepo, &mockTxManager{}, &mockLogger{})

	_, err := service.MarkPaid(context.Background(), "inv-1", today)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("MarkPaid() error = %v, want ErrInsufficientFunds", err)
	}

	// Rejection must leave no trace.
	if len(paymentRepo.payments) != 0 {
		t.Errorf("MarkPaid() recorded %d payments on rejection, want 0", len(paymentRepo.payments))
	}
	if invoiceRepo.invoices[0].IsPaid() {
		t.Error("MarkPaid() marked the invoice PAID on rejection")
	}
	if profileRepo.profile.CashBalance != 99999 {
		t.Errorf("cash balance = %v after rejection, want 99999", profileRepo.profile.CashBalance)
	}
}

func TestPaymentService_MarkPaid_AlreadyPaid(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:      "inv-1",
			Amount:  1000,
			DueDate: date(2026, 4, 1),
			Status:  entity.InvoiceStatusPaid,
		}},
	}
	service := NewPaymentService(invoiceRepo, &mockPaymentRepo{}, newMockProfileRepo(5000), &mockTxManager{}, &mockLogger{})

	_, err := service.MarkPaid(context.Background(), "inv-1", today)
	if !errors.Is(err, ErrInvoiceAlreadyPaid) {
		t.Errorf("MarkPaid() error = %v, want ErrInvoiceAlreadyPaid", err)
	}
}

func TestPaymentService_MarkPaid_DuplicatePaymentRow(t *testing.T) {
	// Stored status lags behind an existing payment row; the row wins.
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:      "inv-1",
			Amount:  1000,
			DueDate: date(2026, 4, 1),
			Status:  entity.InvoiceStatusActive,
		}},
	}
	paymentRepo := &mockPaymentRepo{
		payments: []*entity.Payment{{ID: "pay-1", InvoiceID: "inv-1", AmountPaid: 1000}},
	}
	service := NewPaymentService(invoiceRepo, paymentRepo, newMockProfileRepo(5000), &mockTxManager{}, &mockLogger{})

	_, err := service.MarkPaid(context.Background(), "inv-1", today)
	if !errors.Is(err, ErrInvoiceAlreadyPaid) {
		t.Errorf("MarkPaid() error = %v, want ErrInvoiceAlreadyPaid", err)
	}
}

func TestPaymentService_MarkPaid_RolledBackWriteAllowsRetry(t *testing.T) {
	// A failed status flip rolls back the payment insert too. The invoice
	// must still be payable afterwards instead of tripping the duplicate
	// guard on an orphaned payment row.
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{{
			ID:      "inv-1",
			Amount:  1000,
			DueDate: date(2026, 4, 1),
			Status:  entity.InvoiceStatusActive,
		}},
		markPaidErr: errors.New("disk full"),
	}
	paymentRepo := &mockPaymentRepo{}
	txManager := &mockTxManager{rollback: func() { paymentRepo.payments = nil }}
	profileRepo := newMockProfileRepo(5000)

	service := NewPaymentService(invoiceRepo, paymentRepo, profileRepo, txManager, &mockLogger{})

	if _, err := service.MarkPaid(context.Background(), "inv-1", today); err == nil {
		t.Fatal("MarkPaid() succeeded despite status write failure")
	}
	if txManager.calls != 1 {
		t.Fatalf("writes ran through %d transactions, want 1", txManager.calls)
	}
	if len(paymentRepo.payments) != 0 {
		t.Fatalf("payment row survived the rollback: %d rows", len(paymentRepo.payments))
	}

	invoiceRepo.markPaidErr = nil
	result, err := service.MarkPaid(context.Background(), "inv-1", today)
	if err != nil {
		t.Fatalf("retry after rollback error = %v", err)
	}
	if result.TotalPaid != 1000 {
		t.Errorf("retry TotalPaid = %v, want 1000", result.TotalPaid)
	}
}

func TestPaymentService_MarkPaid_InvoiceNotFound(t *testing.T) {
	service := NewPaymentService(&mockInvoiceRepo{}, &mockPaymentRepo{}, newMockProfileRepo(5000), &mockTxManager{}, &mockLogger{})

	_, err := service.MarkPaid(context.Background(), "missing", date(2026, 3, 10))
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("MarkPaid() error = %v, want ErrInvoiceNotFound", err)
	}
}
