package optimizer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// ReportWriter exports a payment plan to an Excel workbook for sharing with
// an accountant.
type ReportWriter struct {
	logger *zap.Logger
}

// NewReportWriter creates a new report writer.
func NewReportWriter(logger *zap.Logger) *ReportWriter {
	return &ReportWriter{logger: logger}
}

// Write renders the plan to outputPath as a single-sheet .xlsx file: a header
// row, one row per plan item in plan order, and a summary block.
func (w *ReportWriter) Write(plan *entity.PaymentPlan, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headers := []string{"Supplier", "Invoice ID", "Amount", "Priority", "Action", "Discount Saving", "EAC %", "Reason"}
	for col, h := range headers {
		w.setCell(f, sheet, cellRef(col, 1), h)
	}

	row := 2
	for _, item := range plan.Plan {
		w.setCell(f, sheet, cellRef(0, row), item.SupplierName)
		w.setCell(f, sheet, cellRef(1, row), item.InvoiceID)
		w.setCell(f, sheet, cellRef(2, row), item.Amount)
		w.setCell(f, sheet, cellRef(3, row), item.Priority)
		w.setCell(f, sheet, cellRef(4, row), item.Action)
		w.setCell(f, sheet, cellRef(5, row), item.DiscountSaving)
		if item.EAC != nil {
			w.setCell(f, sheet, cellRef(6, row), fmt.Sprintf("%.2f", *item.EAC))
		} else {
			w.setCell(f, sheet, cellRef(6, row), "n/a")
		}
		w.setCell(f, sheet, cellRef(7, row), item.Reason)
		row++
	}

	row++
	w.setCell(f, sheet, cellRef(0, row), "Total savings")
	w.setCell(f, sheet, cellRef(1, row), plan.TotalSavings)
	row++
	w.setCell(f, sheet, cellRef(0, row), "Health score")
	w.setCell(f, sheet, cellRef(1, row), plan.HealthScore)
	row++
	w.setCell(f, sheet, cellRef(0, row), "Summary")
	w.setCell(f, sheet, cellRef(1, row), plan.Summary)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save plan report: %w", err)
	}

	w.logger.Info("Payment plan report written",
		zap.String("output_path", outputPath),
		zap.Int("items", len(plan.Plan)))
	return nil
}

func (w *ReportWriter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func cellRef(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
