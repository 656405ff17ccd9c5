package optimizer

import (
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// Enrich attaches supplier display names and invoice amounts to a plan so the
// presentation layer needs no further joins. Pure read-side shaping; unknown
// suppliers render as "Unknown" rather than dropping the item.
func Enrich(plan *entity.PaymentPlan, invoices []*entity.Invoice, suppliers []*entity.Supplier) {
	byID := make(map[string]*entity.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	supplierName := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		supplierName[s.ID] = s.Name
	}

	for i := range plan.Plan {
		inv, ok := byID[plan.Plan[i].InvoiceID]
		if !ok {
			plan.Plan[i].SupplierName = "Unknown"
			continue
		}
		plan.Plan[i].Amount = inv.Amount
		if name, ok := supplierName[inv.SupplierID]; ok {
			plan.Plan[i].SupplierName = name
		} else {
			plan.Plan[i].SupplierName = "Unknown"
		}
	}
}
