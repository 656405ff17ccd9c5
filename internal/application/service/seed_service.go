package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashwinkp/creditflow/internal/application/port"
)

// ErrAlreadySeeded is returned when demo data is requested on a non-empty workspace
var ErrAlreadySeeded = errors.New("workspace already has suppliers")

// demoCashBalance is the cash position the demo workspace starts with.
const demoCashBalance = 150000

// SeedService loads a sample set of suppliers and invoices so a fresh
// workspace has something to explore.
type SeedService interface {
	LoadDemoData(ctx context.Context, today time.Time) error
}

type seedServiceImpl struct {
	supplierService SupplierService
	invoiceService  InvoiceService
	supplierRepo    port.SupplierRepository
	profileRepo     port.ProfileRepository
	logger          Logger
}

// NewSeedService creates a new SeedService
func NewSeedService(
	supplierService SupplierService,
	invoiceService InvoiceService,
	supplierRepo port.SupplierRepository,
	profileRepo port.ProfileRepository,
	logger Logger,
) SeedService {
	return &seedServiceImpl{
		supplierService: supplierService,
		invoiceService:  invoiceService,
		supplierRepo:    supplierRepo,
		profileRepo:     profileRepo,
		logger:          logger,
	}
}

type demoSupplier struct {
	name     string
	category string
}

type demoInvoice struct {
	supplierIdx   int
	amount        float64
	terms         string
	invoiceOffset int
}

var demoSuppliers = []demoSupplier{
	{"Mehta Packaging Solutions", "Packaging"},
	{"Sharma Raw Materials Ltd", "Raw Materials"},
	{"TechVision Electronics", "Electronics"},
	{"Patel Textiles & Fabrics", "Textiles"},
	{"GreenChem Industries", "Chemicals"},
	{"Agri Fresh Traders", "Food & Agri"},
}

// demoInvoices spans the full status range relative to today: one overdue,
// two due soon and five comfortably out, four with early payment discounts.
var demoInvoices = []demoInvoice{
	{0, 32000, "2/10 Net 30", -35},
	{1, 85000, "Net 30", -27},
	{2, 150000, "3/10 Net 30", -5},
	{3, 45000, "Net 45", -10},
	{4, 220000, "2/10 Net 45", -3},
	{5, 68000, "Net 60", -15},
	{0, 18000, "Net 30", -28},
	{1, 95000, "3/15 Net 45", -2},
}

func (s *seedServiceImpl) LoadDemoData(ctx context.Context, today time.Time) error {
	existing, err := s.supplierRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list suppliers: %w", err)
	}
	if len(existing) > 0 {
		return ErrAlreadySeeded
	}

	supplierIDs := make([]string, len(demoSuppliers))
	for i, ds := range demoSuppliers {
		firstWord := strings.ToLower(strings.Fields(ds.name)[0])
		created, err := s.supplierService.Create(ctx, ds.name, ds.category,
			"+91 98765 43210", fmt.Sprintf("info@%s.in", firstWord))
		if err != nil {
			return fmt.Errorf("create demo supplier %q: %w", ds.name, err)
		}
		supplierIDs[i] = created.ID
	}

	for _, di := range demoInvoices {
		_, err := s.invoiceService.Create(ctx, CreateInvoiceInput{
			SupplierID:  supplierIDs[di.supplierIdx],
			Amount:      di.amount,
			TermsText:   di.terms,
			InvoiceDate: today.AddDate(0, 0, di.invoiceOffset),
		})
		if err != nil {
			return fmt.Errorf("create demo invoice: %w", err)
		}
	}

	if err := s.profileRepo.SetCashBalance(ctx, demoCashBalance); err != nil {
		return fmt.Errorf("set demo cash balance: %w", err)
	}

	s.logger.Info("Demo data loaded",
		"suppliers", len(demoSuppliers),
		"invoices", len(demoInvoices))
	return nil
}
