package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/finance"
	"github.com/ashwinkp/creditflow/internal/terms"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	ErrInvalidAmount    = errors.New("invoice amount must be positive")
	ErrMissingSupplier  = errors.New("supplier is required")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
)

// Due-date alert offsets, in days before the due date.
var dueAlertOffsets = []struct {
	Type       string
	DaysBefore int
}{
	{entity.AlertDue7Days, 7},
	{entity.AlertDue3Days, 3},
	{entity.AlertDueToday, 0},
}

// CreateInvoiceInput carries the fields accepted on invoice entry. Terms may
// be any free-text credit term string; unparseable input falls back to Net 30.
type CreateInvoiceInput struct {
	SupplierID  string
	Amount      float64
	TermsText   string
	InvoiceDate time.Time
	PenaltyRate float64
	PenaltyType string
	Notes       string
}

// InvoiceDetail pairs an invoice with its scheduled reminder alerts.
type InvoiceDetail struct {
	Invoice *entity.Invoice `json:"invoice"`
	Alerts  []*entity.Alert `json:"alerts"`
}

// InvoiceService manages invoice ingestion and listing.
type InvoiceService interface {
	// Create validates the input, freezes the parsed credit term onto a new
	// invoice record and schedules its due-date and discount alerts.
	Create(ctx context.Context, input CreateInvoiceInput) (*entity.Invoice, error)

	// Get returns a single invoice with its status recomputed as of today.
	Get(ctx context.Context, id string, today time.Time) (*entity.Invoice, error)

	// GetDetail returns the invoice together with its scheduled reminder
	// alerts, pending and triggered alike.
	GetDetail(ctx context.Context, id string, today time.Time) (*InvoiceDetail, error)

	// List returns invoices with derived statuses, optionally filtered to
	// one status (empty filter means all).
	List(ctx context.Context, statusFilter string, today time.Time) ([]*entity.Invoice, error)
}

type invoiceServiceImpl struct {
	invoiceRepo  port.InvoiceRepository
	supplierRepo port.SupplierRepository
	alertRepo    port.AlertRepository
	logger       Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	supplierRepo port.SupplierRepository,
	alertRepo port.AlertRepository,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		alertRepo:    alertRepo,
		logger:       logger,
	}
}

func (s *invoiceServiceImpl) Create(ctx context.Context, input CreateInvoiceInput) (*entity.Invoice, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(input.SupplierID) == "" {
		return nil, ErrMissingSupplier
	}

	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		s.logger.Error("Failed to look up supplier", "error", err, "supplier_id", input.SupplierID)
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if supplier == nil {
		return nil, ErrSupplierNotFound
	}

	term := terms.Parse(input.TermsText)

	penaltyType := input.PenaltyType
	if penaltyType != entity.PenaltyTypeMonthly {
		penaltyType = entity.PenaltyTypeDaily
	}

	invoice := &entity.Invoice{
		ID:           uuid.NewString(),
		SupplierID:   input.SupplierID,
		Amount:       input.Amount,
		TermsText:    input.TermsText,
		InvoiceDate:  input.InvoiceDate,
		DueDate:      input.InvoiceDate.AddDate(0, 0, term.NetDays),
		DiscountPct:  term.DiscountPct,
		DiscountDays: term.DiscountDays,
		PenaltyRate:  input.PenaltyRate,
		PenaltyType:  penaltyType,
		Status:       entity.InvoiceStatusActive,
		Notes:        input.Notes,
		CreatedAt:    time.Now().UTC(),
	}

	if term.DiscountPct > 0 {
		deadline := input.InvoiceDate.AddDate(0, 0, term.DiscountDays)
		invoice.DiscountDeadline = &deadline
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		s.logger.Error("Failed to create invoice", "error", err, "supplier_id", input.SupplierID)
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	if err := s.scheduleAlerts(ctx, invoice); err != nil {
		// The invoice itself is committed; missing reminders are not
		// worth failing ingestion over.
		s.logger.Warn("Failed to schedule alerts", "error", err, "invoice_id", invoice.ID)
	}

	s.logger.Info("Invoice created",
		"invoice_id", invoice.ID,
		"supplier_id", invoice.SupplierID,
		"amount", invoice.Amount,
		"terms", invoice.TermsText,
		"due_date", invoice.DueDate.Format("2006-01-02"))

	return invoice, nil
}

// scheduleAlerts inserts the due-date countdown alerts and, when a discount
// window exists, a discount-expiry alert for the day before the deadline.
func (s *invoiceServiceImpl) scheduleAlerts(ctx context.Context, invoice *entity.Invoice) error {
	now := time.Now().UTC()

	var alerts []*entity.Alert
	for _, offset := range dueAlertOffsets {
		alerts = append(alerts, &entity.Alert{
			ID:        uuid.NewString(),
			InvoiceID: invoice.ID,
			Type:      offset.Type,
			Status:    entity.AlertStatusPending,
			TriggerAt: invoice.DueDate.AddDate(0, 0, -offset.DaysBefore),
			CreatedAt: now,
		})
	}

	if invoice.DiscountDeadline != nil {
		alerts = append(alerts, &entity.Alert{
			ID:        uuid.NewString(),
			InvoiceID: invoice.ID,
			Type:      entity.AlertDiscountExpiring,
			Status:    entity.AlertStatusPending,
			TriggerAt: invoice.DiscountDeadline.AddDate(0, 0, -1),
			CreatedAt: now,
		})
	}

	return s.alertRepo.CreateBatch(ctx, alerts)
}

func (s *invoiceServiceImpl) Get(ctx context.Context, id string, today time.Time) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	invoice.Status = finance.Classify(invoice, today)
	return invoice, nil
}

func (s *invoiceServiceImpl) GetDetail(ctx context.Context, id string, today time.Time) (*InvoiceDetail, error) {
	invoice, err := s.Get(ctx, id, today)
	if err != nil {
		return nil, err
	}

	alerts, err := s.alertRepo.ListByInvoiceID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list invoice alerts", "error", err, "invoice_id", id)
		return nil, fmt.Errorf("list invoice alerts: %w", err)
	}

	return &InvoiceDetail{Invoice: invoice, Alerts: alerts}, nil
}

func (s *invoiceServiceImpl) List(ctx context.Context, statusFilter string, today time.Time) ([]*entity.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list invoices", "error", err)
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	filter := strings.ToUpper(strings.TrimSpace(statusFilter))
	result := make([]*entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		inv.Status = finance.Classify(inv, today)
		if filter == "" || inv.Status == filter {
			result = append(result, inv)
		}
	}
	return result, nil
}
