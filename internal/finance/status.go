package finance

import (
	"fmt"
	"time"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// DueSoonWindowDays is how close to the due date an invoice counts as DUE_SOON.
const DueSoonWindowDays = 3

// Classify derives an invoice's lifecycle status from its due date and the
// current date. PAID is terminal and read from the stored flag; everything
// else is recomputed on every call, so stale stored statuses are never shown.
func Classify(inv *entity.Invoice, today time.Time) string {
	if inv.IsPaid() {
		return entity.InvoiceStatusPaid
	}

	days := DaysLeft(inv.DueDate, today)
	switch {
	case days < 0:
		return entity.InvoiceStatusOverdue
	case days <= DueSoonWindowDays:
		return entity.InvoiceStatusDueSoon
	default:
		return entity.InvoiceStatusActive
	}
}

// DaysLeftLabel renders a days-left count the way the dashboard shows it.
func DaysLeftLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Today"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
