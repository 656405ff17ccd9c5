// Package optimizer ranks unpaid supplier invoices into an actionable payment
// plan under a cash budget. The policy, in order: avoid penalties, capture
// early-payment discounts, preserve working capital. Runs are pure functions
// of (invoices, cash, today) and repeated runs yield identical output.
package optimizer

import (
	"fmt"
	"sort"
	"time"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/finance"
	"github.com/ashwinkp/creditflow/internal/terms"
)

const (
	// HighUrgencyWindowDays marks invoices (or discount deadlines) within
	// this many days as high priority.
	HighUrgencyWindowDays = 3

	// MediumUrgencyWindowDays marks invoices due within this many days as
	// medium priority.
	MediumUrgencyWindowDays = 10

	criticalPenaltyPoints = 10
	highPenaltyPoints     = 4
)

// scored carries an invoice plus everything the ranking needs about it.
type scored struct {
	inv      *entity.Invoice
	daysLeft int
	eac      *float64
	saving   float64
	penalty  float64
	priority string
}

// Run produces a payment plan for the given unpaid invoices and available
// cash. Callers must exclude PAID invoices; every input invoice appears in the
// plan exactly once. Run never mutates its inputs.
func Run(invoices []*entity.Invoice, cashAvailable float64, today time.Time) *entity.PaymentPlan {
	if len(invoices) == 0 {
		return &entity.PaymentPlan{
			Plan:        []entity.PlanItem{},
			HealthScore: 100,
			Summary:     "No active invoices found. Your payment schedule is clear.",
		}
	}

	candidates := make([]scored, 0, len(invoices))
	for _, inv := range invoices {
		candidates = append(candidates, score(inv, today))
	}

	sortCandidates(candidates)

	plan := make([]entity.PlanItem, 0, len(candidates))
	var spent, totalSavings float64
	var countCritical, countHigh int
	// The budget is spent strictly in rank order. The first invoice that
	// does not fit exhausts it; skipping ahead to smaller invoices would
	// make the scheduled count shrink as the budget grows.
	var exhausted bool

	for _, c := range candidates {
		item := entity.PlanItem{
			InvoiceID:      c.inv.ID,
			Priority:       c.priority,
			DiscountSaving: c.saving,
			EAC:            c.eac,
		}

		switch c.priority {
		case entity.PriorityCritical:
			countCritical++
			if !exhausted && spent+c.inv.Amount <= cashAvailable {
				item.Action = entity.ActionPayNow
				spent += c.inv.Amount
				item.Reason = criticalReason(c)
			} else {
				// A legally pressing obligation is never silently
				// deferred; the shortfall is surfaced instead.
				exhausted = true
				item.Action = entity.ActionPayNow
				item.Reason = shortfallReason(c, cashAvailable-spent)
			}
		case entity.PriorityHigh:
			countHigh++
			if !exhausted && spent+c.inv.Amount <= cashAvailable {
				item.Action = entity.ActionPayNow
				spent += c.inv.Amount
				item.Reason = highReason(c)
			} else {
				exhausted = true
				item.Action = entity.ActionDefer
				item.Reason = budgetDeferReason(c)
			}
		case entity.PriorityMedium:
			if !exhausted && spent+c.inv.Amount <= cashAvailable {
				item.Action = entity.ActionPayThisWeek
				spent += c.inv.Amount
				item.Reason = mediumReason(c)
			} else {
				exhausted = true
				item.Action = entity.ActionDefer
				item.Reason = budgetDeferReason(c)
			}
		default:
			// Low urgency: hold the cash regardless of budget headroom.
			item.Action = entity.ActionDefer
			item.Reason = lowDeferReason(c)
		}

		if item.Action != entity.ActionDefer {
			totalSavings += c.saving
		}

		plan = append(plan, item)
	}

	health := 100 - criticalPenaltyPoints*countCritical - highPenaltyPoints*countHigh
	if health < 0 {
		health = 0
	}

	return &entity.PaymentPlan{
		Plan:         plan,
		TotalSavings: totalSavings,
		HealthScore:  health,
		Summary:      summarize(plan, totalSavings, health),
	}
}

// score computes the ranking inputs for one invoice.
func score(inv *entity.Invoice, today time.Time) scored {
	c := scored{
		inv:      inv,
		daysLeft: finance.DaysLeft(inv.DueDate, today),
		saving:   finance.DiscountAmount(inv, today),
		penalty:  finance.PenaltyAccrued(inv, today),
	}

	netDays := terms.Parse(inv.TermsText).NetDays
	if rate, ok := finance.EAC(inv.DiscountPct, inv.DiscountDays, netDays); ok {
		c.eac = &rate
	}

	c.priority = classifyPriority(c, today)
	return c
}

func classifyPriority(c scored, today time.Time) string {
	switch {
	case c.daysLeft <= 0 || c.penalty > 0:
		return entity.PriorityCritical
	case c.daysLeft <= HighUrgencyWindowDays:
		return entity.PriorityHigh
	case c.saving > 0 && discountDaysLeft(c.inv, today) <= HighUrgencyWindowDays:
		return entity.PriorityHigh
	case c.daysLeft <= MediumUrgencyWindowDays:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}

// discountDaysLeft returns days until the discount deadline. Callers guard on
// saving > 0, which implies the deadline exists and is still open.
func discountDaysLeft(inv *entity.Invoice, today time.Time) int {
	if inv.DiscountDeadline == nil {
		return 0
	}
	return finance.DaysLeft(*inv.DiscountDeadline, today)
}

// sortCandidates orders by priority rank, then descending EAC (invoices with
// no EAC after any with one), then ascending days left, then invoice ID so the
// ordering is total and runs are reproducible.
func sortCandidates(cs []scored) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]

		ra, rb := priorityRank(a.priority), priorityRank(b.priority)
		if ra != rb {
			return ra > rb
		}

		switch {
		case a.eac != nil && b.eac == nil:
			return true
		case a.eac == nil && b.eac != nil:
			return false
		case a.eac != nil && b.eac != nil && *a.eac != *b.eac:
			return *a.eac > *b.eac
		}

		if a.daysLeft != b.daysLeft {
			return a.daysLeft < b.daysLeft
		}
		return a.inv.ID < b.inv.ID
	})
}

func priorityRank(p string) int {
	switch p {
	case entity.PriorityCritical:
		return 3
	case entity.PriorityHigh:
		return 2
	case entity.PriorityMedium:
		return 1
	default:
		return 0
	}
}

func criticalReason(c scored) string {
	if c.penalty > 0 {
		return fmt.Sprintf("Overdue by %d days with %s penalty accrued (%.1f%%/%s); pay immediately.",
			-c.daysLeft, finance.FormatINR(c.penalty), c.inv.PenaltyRate, c.inv.PenaltyType)
	}
	if c.daysLeft < 0 {
		return fmt.Sprintf("Overdue by %d days; pay immediately to avoid penalties.", -c.daysLeft)
	}
	return "Due today; pay immediately to avoid penalties."
}

func shortfallReason(c scored, remaining float64) string {
	if remaining < 0 {
		remaining = 0
	}
	base := criticalReason(c)
	return fmt.Sprintf("%s Cash shortfall: only %s remaining against %s needed.",
		base, finance.FormatINR(remaining), finance.FormatINR(c.inv.Amount))
}

func highReason(c scored) string {
	if c.saving > 0 {
		var eacNote string
		if c.eac != nil {
			eacNote = fmt.Sprintf(" (EAC %.1f%%)", *c.eac)
		}
		return fmt.Sprintf("%.1f%% discount worth %s expires soon%s; pay early to capture it.",
			c.inv.DiscountPct, finance.FormatINR(c.saving), eacNote)
	}
	return fmt.Sprintf("Due in %d days; pay now to stay clear of penalties.", c.daysLeft)
}

func mediumReason(c scored) string {
	if c.saving > 0 {
		return fmt.Sprintf("Due in %d days with %s discount still open; schedule this week.",
			c.daysLeft, finance.FormatINR(c.saving))
	}
	return fmt.Sprintf("Due in %d days; schedule payment this week.", c.daysLeft)
}

func budgetDeferReason(c scored) string {
	return fmt.Sprintf("Cash budget exhausted; defer despite %d days to due date.", c.daysLeft)
}

func lowDeferReason(c scored) string {
	return fmt.Sprintf("%d days remaining; defer to preserve working capital.", c.daysLeft)
}

func summarize(plan []entity.PlanItem, totalSavings float64, health int) string {
	var payNow, payWeek, deferred int
	for _, item := range plan {
		switch item.Action {
		case entity.ActionPayNow:
			payNow++
		case entity.ActionPayThisWeek:
			payWeek++
		default:
			deferred++
		}
	}

	return fmt.Sprintf(
		"Reviewed %d invoices: pay %d now, %d this week, defer %d. Projected discount savings %s. Payment health %d/100.",
		len(plan), payNow, payWeek, deferred, finance.FormatINR(totalSavings), health)
}
