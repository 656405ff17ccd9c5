package optimizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

var today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func dayPtr(offset int) *time.Time {
	d := day(offset)
	return &d
}

func overdueInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:          "inv-overdue",
		SupplierID:  "sup-1",
		Amount:      32000,
		TermsText:   "Net 30",
		DueDate:     day(-5),
		PenaltyRate: 1,
		PenaltyType: entity.PenaltyTypeDaily,
	}
}

func discountInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:               "inv-discount",
		SupplierID:       "sup-2",
		Amount:           150000,
		TermsText:        "3/10 Net 30",
		DueDate:          day(25),
		DiscountPct:      3,
		DiscountDays:     10,
		DiscountDeadline: dayPtr(2),
	}
}

func plainInvoice(id string, dueOffset int, amount float64) *entity.Invoice {
	return &entity.Invoice{
		ID:         id,
		SupplierID: "sup-3",
		Amount:     amount,
		TermsText:  "Net 30",
		DueDate:    day(dueOffset),
	}
}

func TestRunEmptyPool(t *testing.T) {
	plan := Run(nil, 500000, today)

	assert.Empty(t, plan.Plan)
	assert.Zero(t, plan.TotalSavings)
	assert.Equal(t, 100, plan.HealthScore)
	assert.Contains(t, plan.Summary, "clear")
}

func TestRunEndToEndScenario(t *testing.T) {
	// Invoice A: overdue 5 days, 1% daily penalty on 32000 => 1600 accrued.
	// Invoice B: 3/10 Net 30 discount expiring in 2 days => 4500 saving.
	invoices := []*entity.Invoice{overdueInvoice(), discountInvoice()}

	plan := Run(invoices, 1000000, today)
	require.Len(t, plan.Plan, 2)

	byID := map[string]entity.PlanItem{}
	for _, item := range plan.Plan {
		byID[item.InvoiceID] = item
	}

	a := byID["inv-overdue"]
	assert.Equal(t, entity.PriorityCritical, a.Priority)
	assert.Equal(t, entity.ActionPayNow, a.Action)
	assert.Contains(t, a.Reason, "₹1,600")
	assert.Contains(t, a.Reason, "Overdue by 5 days")

	b := byID["inv-discount"]
	assert.Equal(t, entity.PriorityHigh, b.Priority)
	assert.Equal(t, entity.ActionPayNow, b.Action)
	assert.Equal(t, 4500.0, b.DiscountSaving)
	require.NotNil(t, b.EAC)
	assert.InDelta(t, (3.0/97.0)*(365.0/20.0)*100, *b.EAC, 1e-9)

	assert.Equal(t, 4500.0, plan.TotalSavings)
	// One critical and one high: 100 - 10 - 4.
	assert.Equal(t, 86, plan.HealthScore)
}

func TestRunCriticalOrderedFirst(t *testing.T) {
	invoices := []*entity.Invoice{
		plainInvoice("inv-low", 40, 5000),
		discountInvoice(),
		overdueInvoice(),
		plainInvoice("inv-medium", 7, 8000),
	}

	plan := Run(invoices, 1000000, today)
	require.Len(t, plan.Plan, 4)

	assert.Equal(t, "inv-overdue", plan.Plan[0].InvoiceID)
	assert.Equal(t, "inv-discount", plan.Plan[1].InvoiceID)
	assert.Equal(t, "inv-medium", plan.Plan[2].InvoiceID)
	assert.Equal(t, "inv-low", plan.Plan[3].InvoiceID)
}

func TestRunTieBreaksByEACThenDaysLeft(t *testing.T) {
	// Two HIGH invoices due soon: the one with a live discount (numeric EAC)
	// must outrank the discount-free one.
	withEAC := &entity.Invoice{
		ID:               "inv-eac",
		Amount:           20000,
		TermsText:        "2/10 Net 30",
		DueDate:          day(3),
		DiscountPct:      2,
		DiscountDays:     10,
		DiscountDeadline: dayPtr(2),
	}
	withoutEAC := plainInvoice("inv-plain", 2, 20000)

	plan := Run([]*entity.Invoice{withoutEAC, withEAC}, 1000000, today)
	require.Len(t, plan.Plan, 2)
	assert.Equal(t, "inv-eac", plan.Plan[0].InvoiceID, "numeric EAC sorts before no EAC")

	// With neither carrying an EAC, fewer days left wins.
	early := plainInvoice("inv-early", 1, 1000)
	late := plainInvoice("inv-late", 3, 1000)
	plan = Run([]*entity.Invoice{late, early}, 1000000, today)
	assert.Equal(t, "inv-early", plan.Plan[0].InvoiceID)
}

func TestRunBudgetExhaustion(t *testing.T) {
	invoices := []*entity.Invoice{
		plainInvoice("inv-a", 2, 60000), // HIGH
		plainInvoice("inv-b", 3, 60000), // HIGH
		plainInvoice("inv-c", 7, 30000), // MEDIUM
	}

	plan := Run(invoices, 70000, today)
	require.Len(t, plan.Plan, 3)

	byID := map[string]entity.PlanItem{}
	for _, item := range plan.Plan {
		byID[item.InvoiceID] = item
	}

	assert.Equal(t, entity.ActionPayNow, byID["inv-a"].Action)
	assert.Equal(t, entity.ActionDefer, byID["inv-b"].Action)
	assert.Contains(t, byID["inv-b"].Reason, "budget exhausted")
	// Exhaustion at inv-b defers everything ranked after it.
	assert.Equal(t, entity.ActionDefer, byID["inv-c"].Action)
}

func TestRunNoSkipOverAfterExhaustion(t *testing.T) {
	// A higher-ranked invoice that does not fit must not be skipped in
	// favor of smaller ones further down the order.
	invoices := []*entity.Invoice{
		plainInvoice("inv-big", 1, 100000),
		plainInvoice("inv-s1", 2, 5000),
		plainInvoice("inv-s2", 3, 5000),
	}

	plan := Run(invoices, 10000, today)
	require.Len(t, plan.Plan, 3)

	for _, item := range plan.Plan {
		assert.Equal(t, entity.ActionDefer, item.Action, "invoice %s", item.InvoiceID)
	}
}

func TestRunCriticalShortfallStaysPayNow(t *testing.T) {
	plan := Run([]*entity.Invoice{overdueInvoice()}, 0, today)
	require.Len(t, plan.Plan, 1)

	item := plan.Plan[0]
	assert.Equal(t, entity.PriorityCritical, item.Priority)
	assert.Equal(t, entity.ActionPayNow, item.Action, "critical obligations are surfaced, not deferred")
	assert.Contains(t, item.Reason, "shortfall")
}

func TestRunZeroCashDefersAllNonCritical(t *testing.T) {
	invoices := []*entity.Invoice{
		overdueInvoice(),
		discountInvoice(),
		plainInvoice("inv-medium", 7, 8000),
		plainInvoice("inv-low", 40, 5000),
	}

	plan := Run(invoices, 0, today)
	for _, item := range plan.Plan {
		if item.Priority == entity.PriorityCritical {
			assert.Equal(t, entity.ActionPayNow, item.Action)
		} else {
			assert.Equal(t, entity.ActionDefer, item.Action, "invoice %s", item.InvoiceID)
		}
	}
	assert.Zero(t, plan.TotalSavings)
}

func TestRunLowPriorityAlwaysDeferred(t *testing.T) {
	plan := Run([]*entity.Invoice{plainInvoice("inv-low", 45, 5000)}, 1000000, today)
	require.Len(t, plan.Plan, 1)

	assert.Equal(t, entity.PriorityLow, plan.Plan[0].Priority)
	assert.Equal(t, entity.ActionDefer, plan.Plan[0].Action)
	assert.Contains(t, plan.Plan[0].Reason, "working capital")
	assert.Equal(t, 100, plan.HealthScore)
}

func TestRunCoversEveryInvoiceExactlyOnce(t *testing.T) {
	invoices := []*entity.Invoice{
		overdueInvoice(),
		discountInvoice(),
		plainInvoice("inv-1", 5, 1000),
		plainInvoice("inv-2", 15, 2000),
		plainInvoice("inv-3", 45, 3000),
	}

	plan := Run(invoices, 50000, today)
	require.Len(t, plan.Plan, len(invoices))

	seen := map[string]int{}
	for _, item := range plan.Plan {
		seen[item.InvoiceID]++
	}
	for _, inv := range invoices {
		assert.Equal(t, 1, seen[inv.ID], "invoice %s must appear exactly once", inv.ID)
	}
}

func TestRunIdempotent(t *testing.T) {
	invoices := []*entity.Invoice{
		overdueInvoice(),
		discountInvoice(),
		plainInvoice("inv-1", 5, 1000),
		plainInvoice("inv-2", 15, 2000),
	}

	first, err := json.Marshal(Run(invoices, 200000, today))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Run(invoices, 200000, today))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again), "repeated runs must be byte-identical")
	}
}

func TestRunBudgetMonotonicity(t *testing.T) {
	// Unequal amounts matter here: a growing budget must never let a large
	// invoice displace several small ones scheduled at a lower budget.
	cases := map[string][]*entity.Invoice{
		"equal amounts": {
			plainInvoice("inv-a", 2, 40000),
			plainInvoice("inv-b", 3, 40000),
			plainInvoice("inv-c", 7, 40000),
			plainInvoice("inv-d", 9, 40000),
		},
		"large before small": {
			plainInvoice("inv-big", 1, 100000),
			plainInvoice("inv-s1", 2, 5000),
			plainInvoice("inv-s2", 3, 5000),
		},
	}

	for name, invoices := range cases {
		t.Run(name, func(t *testing.T) {
			prev := -1
			for _, cash := range []float64{0, 5000, 10000, 40000, 80000, 100000, 120000, 500000} {
				plan := Run(invoices, cash, today)
				scheduled := 0
				for _, item := range plan.Plan {
					if item.Action != entity.ActionDefer {
						scheduled++
					}
				}
				assert.GreaterOrEqual(t, scheduled, prev, "cash %v", cash)
				prev = scheduled
			}
		})
	}
}

func TestRunHealthScoreFloor(t *testing.T) {
	var invoices []*entity.Invoice
	for i := 0; i < 12; i++ {
		inv := overdueInvoice()
		inv.ID = inv.ID + string(rune('a'+i))
		invoices = append(invoices, inv)
	}

	plan := Run(invoices, 1000000, today)
	assert.Equal(t, 0, plan.HealthScore, "score floors at zero")
}

func TestEnrich(t *testing.T) {
	invoices := []*entity.Invoice{overdueInvoice(), discountInvoice()}
	suppliers := []*entity.Supplier{
		{ID: "sup-1", Name: "Mehta Packaging Solutions"},
	}

	plan := Run(invoices, 1000000, today)
	Enrich(plan, invoices, suppliers)

	byID := map[string]entity.PlanItem{}
	for _, item := range plan.Plan {
		byID[item.InvoiceID] = item
	}

	assert.Equal(t, "Mehta Packaging Solutions", byID["inv-overdue"].SupplierName)
	assert.Equal(t, 32000.0, byID["inv-overdue"].Amount)
	assert.Equal(t, "Unknown", byID["inv-discount"].SupplierName, "missing supplier falls back to Unknown")
	assert.Equal(t, 150000.0, byID["inv-discount"].Amount)
}
