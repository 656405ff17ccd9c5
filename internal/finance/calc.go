// Package finance holds the pure calculators behind the payment engine:
// days-remaining, effective annualized cost of a forgone discount, discount
// amounts and penalty accrual. Every function is total over its typed domain;
// non-applicable results are values, not errors.
package finance

import (
	"math"
	"time"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// DaysInPenaltyMonth is the month length used when accruing monthly penalties.
// A partial month counts as a full month.
const DaysInPenaltyMonth = 30

// DaysLeft returns the whole days from today until target. Both dates are
// normalized to midnight first, so two calls on the same calendar day agree
// regardless of time of day. Negative means past due by that many days; zero
// means due today.
func DaysLeft(target, today time.Time) int {
	t := midnight(target)
	n := midnight(today)
	return int(math.Ceil(t.Sub(n).Hours() / 24))
}

// EAC computes the effective annualized cost of forgoing an early-payment
// discount, as a percentage:
//
//	(pct / (100 - pct)) * (365 / (netDays - discountDays)) * 100
//
// ok is false when no discount applies (pct <= 0) or the payment window is not
// positive (netDays <= discountDays).
func EAC(discountPct float64, discountDays, netDays int) (float64, bool) {
	if discountPct <= 0 || netDays <= discountDays {
		return 0, false
	}
	rate := (discountPct / (100 - discountPct)) * (365 / float64(netDays-discountDays)) * 100
	return rate, true
}

// DiscountAmount returns the rupee value of the invoice's early-payment
// discount if its deadline is still open as of today. The discount is
// use-it-or-lose-it: once the deadline passes the amount is zero.
func DiscountAmount(inv *entity.Invoice, today time.Time) float64 {
	if inv.DiscountPct <= 0 || inv.DiscountDeadline == nil {
		return 0
	}
	if DaysLeft(*inv.DiscountDeadline, today) <= 0 {
		return 0
	}
	return inv.Amount * inv.DiscountPct / 100
}

// PenaltyAccrued returns the late-payment penalty accrued on the invoice as of
// the given date. Zero unless the invoice is overdue and carries a penalty
// rate. Monthly penalties round a partial month up to a full month.
func PenaltyAccrued(inv *entity.Invoice, asOf time.Time) float64 {
	days := DaysLeft(inv.DueDate, asOf)
	if days >= 0 || inv.PenaltyRate <= 0 {
		return 0
	}

	overdueDays := -days
	base := inv.Amount * inv.PenaltyRate / 100

	if inv.PenaltyType == entity.PenaltyTypeMonthly {
		months := (overdueDays + DaysInPenaltyMonth - 1) / DaysInPenaltyMonth
		return base * float64(months)
	}
	return base * float64(overdueDays)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
