package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

type mockExporter struct {
	plan     *entity.PaymentPlan
	path     string
	writeErr error
}

func (m *mockExporter) Write(plan *entity.PaymentPlan, outputPath string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.plan = plan
	m.path = outputPath
	return nil
}

func TestOptimizerService_Optimize_UsesProfileBalanceWhenCashNil(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{
			{ID: "inv-1", SupplierID: "sup-1", Amount: 40000, TermsText: "Net 30",
				DueDate: today.AddDate(0, 0, 2), Status: entity.InvoiceStatusActive},
			{ID: "inv-2", SupplierID: "sup-1", Amount: 40000, TermsText: "Net 30",
				DueDate: today.AddDate(0, 0, 3), Status: entity.InvoiceStatusActive},
		},
	}
	supplierRepo := &mockSupplierRepo{}
	seedSupplier(supplierRepo)

	// Balance covers exactly one of the two invoices.
	service := NewOptimizerService(invoiceRepo, supplierRepo, newMockProfileRepo(40000), &mockExporter{}, &mockLogger{})

	plan, err := service.Optimize(context.Background(), nil, today)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(plan.Plan) != 2 {
		t.Fatalf("Optimize() plan has %d items, want 2", len(plan.Plan))
	}

	var paid, deferred int
	for _, item := range plan.Plan {
		if item.Action == entity.ActionDefer {
			deferred++
		} else {
			paid++
		}
	}
	if paid != 1 || deferred != 1 {
		t.Errorf("Optimize() paid=%d deferred=%d, want 1 and 1", paid, deferred)
	}
}

func TestOptimizerService_Optimize_ExplicitCashOverridesProfile(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{
			{ID: "inv-1", SupplierID: "sup-1", Amount: 40000, TermsText: "Net 30",
				DueDate: today.AddDate(0, 0, 2), Status: entity.InvoiceStatusActive},
			{ID: "inv-2", SupplierID: "sup-1", Amount: 40000, TermsText: "Net 30",
				DueDate: today.AddDate(0, 0, 3), Status: entity.InvoiceStatusActive},
		},
	}
	supplierRepo := &mockSupplierRepo{}
	seedSupplier(supplierRepo)

	service := NewOptimizerService(invoiceRepo, supplierRepo, newMockProfileRepo(0), &mockExporter{}, &mockLogger{})

	cash := 100000.0
	plan, err := service.Optimize(context.Background(), &cash, today)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	for _, item := range plan.Plan {
		if item.Action == entity.ActionDefer {
			t.Errorf("Optimize() deferred %s despite explicit budget", item.InvoiceID)
		}
	}
}

func TestOptimizerService_Optimize_NegativeCash(t *testing.T) {
	service := NewOptimizerService(&mockInvoiceRepo{}, &mockSupplierRepo{}, newMockProfileRepo(0), &mockExporter{}, &mockLogger{})

	cash := -1.0
	_, err := service.Optimize(context.Background(), &cash, date(2026, 3, 10))
	if !errors.Is(err, ErrNegativeCash) {
		t.Errorf("Optimize() error = %v, want ErrNegativeCash", err)
	}
}

func TestOptimizerService_Optimize_EnrichesSupplierNames(t *testing.T) {
	today := date(2026, 3, 10)
	invoiceRepo := &mockInvoiceRepo{
		invoices: []*entity.Invoice{
			{ID: "inv-1", SupplierID: "sup-1", Amount: 1000, TermsText: "Net 30",
				DueDate: today.AddDate(0, 0, 10), Status: entity.InvoiceStatusActive},
		},
	}
	supplierRepo := &mockSupplierRepo{}
	seedSupplier(supplierRepo)

	service := NewOptimizerService(invoiceRepo, supplierRepo, newMockProfileRepo(5000), &mockExporter{}, &mockLogger{})

	plan, err := service.Optimize(context.Background(), nil, today)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if plan.Plan[0].SupplierName != "Mehta Packaging Solutions" {
		t.Errorf("Optimize() SupplierName = %q, want supplier name", plan.Plan[0].SupplierName)
	}
	if plan.Plan[0].Amount != 1000 {
		t.Errorf("Optimize() Amount = %v, want 1000", plan.Plan[0].Amount)
	}
}

func TestOptimizerService_Export(t *testing.T) {
	today := date(2026, 3, 10)
	exporter := &mockExporter{}
	service := NewOptimizerService(&mockInvoiceRepo{}, &mockSupplierRepo{}, newMockProfileRepo(5000), exporter, &mockLogger{})

	plan, err := service.Export(context.Background(), nil, today, "/tmp/plan.xlsx")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if exporter.plan != plan {
		t.Error("Export() did not pass the plan to the exporter")
	}
	if exporter.path != "/tmp/plan.xlsx" {
		t.Errorf("Export() path = %q, want /tmp/plan.xlsx", exporter.path)
	}
}

func TestOptimizerService_Export_WriteFailure(t *testing.T) {
	exporter := &mockExporter{writeErr: errors.New("disk full")}
	service := NewOptimizerService(&mockInvoiceRepo{}, &mockSupplierRepo{}, newMockProfileRepo(5000), exporter, &mockLogger{})

	_, err := service.Export(context.Background(), nil, date(2026, 3, 10), "/tmp/plan.xlsx")
	if err == nil {
		t.Error("Export() error = nil, want write failure")
	}
}
