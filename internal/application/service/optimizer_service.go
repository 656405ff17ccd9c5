package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/optimizer"
)

var ErrNegativeCash = errors.New("cash available must not be negative")

// PlanExporter writes a payment plan to a file.
type PlanExporter interface {
	Write(plan *entity.PaymentPlan, outputPath string) error
}

// OptimizerService runs the payment optimizer over the unpaid invoice pool
// and enriches the plan with supplier data. The run itself is pure: it reads
// invoices and suppliers, never writes.
type OptimizerService interface {
	// Optimize builds a plan for the given cash budget. A nil cashAvailable
	// uses the profile's current cash balance.
	Optimize(ctx context.Context, cashAvailable *float64, today time.Time) (*entity.PaymentPlan, error)

	// Export runs Optimize and writes the result to an .xlsx workbook.
	Export(ctx context.Context, cashAvailable *float64, today time.Time, outputPath string) (*entity.PaymentPlan, error)
}

type optimizerServiceImpl struct {
	invoiceRepo  port.InvoiceRepository
	supplierRepo port.SupplierRepository
	profileRepo  port.ProfileRepository
	exporter     PlanExporter
	logger       Logger
}

// NewOptimizerService creates a new OptimizerService
func NewOptimizerService(
	invoiceRepo port.InvoiceRepository,
	supplierRepo port.SupplierRepository,
	profileRepo port.ProfileRepository,
	exporter PlanExporter,
	logger Logger,
) OptimizerService {
	return &optimizerServiceImpl{
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		profileRepo:  profileRepo,
		exporter:     exporter,
		logger:       logger,
	}
}

func (s *optimizerServiceImpl) Optimize(ctx context.Context, cashAvailable *float64, today time.Time) (*entity.PaymentPlan, error) {
	var cash float64
	if cashAvailable != nil {
		cash = *cashAvailable
	} else {
		profile, err := s.profileRepo.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("get profile: %w", err)
		}
		cash = profile.CashBalance
	}
	if cash < 0 {
		return nil, ErrNegativeCash
	}

	invoices, err := s.invoiceRepo.ListUnpaid(ctx)
	if err != nil {
		s.logger.Error("Failed to load unpaid invoices", "error", err)
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}

	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load suppliers", "error", err)
		return nil, fmt.Errorf("list suppliers: %w", err)
	}

	plan := optimizer.Run(invoices, cash, today)
	optimizer.Enrich(plan, invoices, suppliers)

	s.logger.Info("Optimizer run completed",
		"invoices", len(invoices),
		"cash_available", cash,
		"total_savings", plan.TotalSavings,
		"health_score", plan.HealthScore)

	return plan, nil
}

func (s *optimizerServiceImpl) Export(ctx context.Context, cashAvailable *float64, today time.Time, outputPath string) (*entity.PaymentPlan, error) {
	plan, err := s.Optimize(ctx, cashAvailable, today)
	if err != nil {
		return nil, err
	}

	if err := s.exporter.Write(plan, outputPath); err != nil {
		s.logger.Error("Failed to export plan", "error", err, "output_path", outputPath)
		return nil, fmt.Errorf("export plan: %w", err)
	}

	return plan, nil
}
