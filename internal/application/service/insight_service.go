package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/finance"
)

const (
	// cashflowWeeks is how many weekly outflow buckets the projection covers.
	cashflowWeeks = 6

	// deferralThresholdDays is how far out an invoice must be to count as a
	// deferral opportunity.
	deferralThresholdDays = 30
)

// Insight kinds surfaced on the dashboard.
const (
	InsightUrgent      = "URGENT"
	InsightOpportunity = "OPPORTUNITY"
	InsightDeferral    = "DEFERRAL"
)

// Insight is a short templated dashboard digest.
type Insight struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DashboardKPIs aggregates the headline numbers over unpaid invoices.
type DashboardKPIs struct {
	CashBalance          float64   `json:"cash_balance"`
	TotalOutstanding     float64   `json:"total_outstanding"`
	UrgentCount          int       `json:"urgent_count"`
	SavingsAvailable     float64   `json:"savings_available"`
	MissedSavings        float64   `json:"missed_savings"`
	EstimatedPenalties   float64   `json:"estimated_penalties"`
	DiscountAlertCount   int       `json:"discount_alert_count"`
	DiscountAlertSavings float64   `json:"discount_alert_savings"`
	Insights             []Insight `json:"insights"`
}

// WeeklyOutflow is one bucket of the cash flow projection.
type WeeklyOutflow struct {
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	Amount float64   `json:"amount"`
}

// CashflowProjection covers the next six weeks of committed outflows plus
// invoices far enough out to defer safely.
type CashflowProjection struct {
	Weeks     []WeeklyOutflow   `json:"weeks"`
	Deferrals []*entity.Invoice `json:"deferrals"`
}

// SupplierOutstanding is a supplier's share of the unpaid pool.
type SupplierOutstanding struct {
	SupplierID string  `json:"supplier_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
}

// TermCount is one bucket of the credit terms distribution.
type TermCount struct {
	Terms string `json:"terms"`
	Count int    `json:"count"`
}

// AnalyticsReport summarizes discount capture performance and concentration.
type AnalyticsReport struct {
	DiscountsCaptured     float64               `json:"discounts_captured"`
	DiscountsMissed       float64               `json:"discounts_missed"`
	CaptureRate           float64               `json:"capture_rate"`
	OutstandingBySupplier []SupplierOutstanding `json:"outstanding_by_supplier"`
	TermsDistribution     []TermCount           `json:"terms_distribution"`
}

// InsightService computes read-side aggregates for the dashboard, cash flow
// and analytics views. All derivations recompute status from dates.
type InsightService interface {
	Dashboard(ctx context.Context, today time.Time) (*DashboardKPIs, error)
	Cashflow(ctx context.Context, today time.Time) (*CashflowProjection, error)
	Analytics(ctx context.Context, today time.Time) (*AnalyticsReport, error)
}

type insightServiceImpl struct {
	invoiceRepo  port.InvoiceRepository
	supplierRepo port.SupplierRepository
	paymentRepo  port.PaymentRepository
	profileRepo  port.ProfileRepository
	logger       Logger
}

// NewInsightService creates a new InsightService
func NewInsightService(
	invoiceRepo port.InvoiceRepository,
	supplierRepo port.SupplierRepository,
	paymentRepo port.PaymentRepository,
	profileRepo port.ProfileRepository,
	logger Logger,
) InsightService {
	return &insightServiceImpl{
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		paymentRepo:  paymentRepo,
		profileRepo:  profileRepo,
		logger:       logger,
	}
}

func (s *insightServiceImpl) Dashboard(ctx context.Context, today time.Time) (*DashboardKPIs, error) {
	invoices, err := s.invoiceRepo.ListUnpaid(ctx)
	if err != nil {
		s.logger.Error("Failed to load unpaid invoices", "error", err)
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}

	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	kpis := &DashboardKPIs{CashBalance: profile.CashBalance}

	var urgentAmount float64
	var deferralCount int
	for _, inv := range invoices {
		days := finance.DaysLeft(inv.DueDate, today)

		kpis.TotalOutstanding += inv.Amount
		kpis.EstimatedPenalties += finance.PenaltyAccrued(inv, today)

		if days <= finance.DueSoonWindowDays {
			kpis.UrgentCount++
			urgentAmount += inv.Amount
		}
		if days > deferralThresholdDays {
			deferralCount++
		}

		if inv.DiscountDeadline != nil && inv.DiscountPct > 0 {
			discountDays := finance.DaysLeft(*inv.DiscountDeadline, today)
			potential := inv.Amount * inv.DiscountPct / 100
			if discountDays > 0 {
				kpis.SavingsAvailable += potential
				if discountDays <= finance.DueSoonWindowDays {
					kpis.DiscountAlertCount++
					kpis.DiscountAlertSavings += potential
				}
			} else {
				kpis.MissedSavings += potential
			}
		}
	}

	if kpis.UrgentCount > 0 {
		kpis.Insights = append(kpis.Insights, Insight{
			Kind: InsightUrgent,
			Message: fmt.Sprintf("%d payments due within 3 days totaling %s. Prioritize these to avoid penalties.",
				kpis.UrgentCount, finance.FormatINR(urgentAmount)),
		})
	}
	if kpis.SavingsAvailable > 0 {
		kpis.Insights = append(kpis.Insights, Insight{
			Kind: InsightOpportunity,
			Message: fmt.Sprintf("Pay early to capture %s in discounts. The annualized return makes this a strong cash deployment.",
				finance.FormatINR(kpis.SavingsAvailable)),
		})
	}
	if deferralCount > 0 {
		kpis.Insights = append(kpis.Insights, Insight{
			Kind: InsightDeferral,
			Message: fmt.Sprintf("%d invoices have 30+ days remaining. Defer payments to preserve working capital.",
				deferralCount),
		})
	}

	return kpis, nil
}

func (s *insightServiceImpl) Cashflow(ctx context.Context, today time.Time) (*CashflowProjection, error) {
	invoices, err := s.invoiceRepo.ListUnpaid(ctx)
	if err != nil {
		s.logger.Error("Failed to load unpaid invoices", "error", err)
		return nil, fmt.Errorf("list unpaid invoices: %w", err)
	}

	projection := &CashflowProjection{
		Weeks:     make([]WeeklyOutflow, cashflowWeeks),
		Deferrals: []*entity.Invoice{},
	}

	for w := 0; w < cashflowWeeks; w++ {
		projection.Weeks[w] = WeeklyOutflow{
			Label: fmt.Sprintf("Week %d", w+1),
			Start: today.AddDate(0, 0, w*7),
		}
	}

	for _, inv := range invoices {
		days := finance.DaysLeft(inv.DueDate, today)
		if days >= 0 && days < cashflowWeeks*7 {
			projection.Weeks[days/7].Amount += inv.Amount
		}
		if days > deferralThresholdDays {
			projection.Deferrals = append(projection.Deferrals, inv)
		}
	}

	return projection, nil
}

func (s *insightServiceImpl) Analytics(ctx context.Context, today time.Time) (*AnalyticsReport, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load invoices", "error", err)
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to load payments", "error", err)
		return nil, fmt.Errorf("list payments: %w", err)
	}

	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	supplierName := make(map[string]string, len(suppliers))
	for _, sup := range suppliers {
		supplierName[sup.ID] = sup.Name
	}

	paymentByInvoice := make(map[string]*entity.Payment, len(payments))
	report := &AnalyticsReport{}
	for _, p := range payments {
		paymentByInvoice[p.InvoiceID] = p
		report.DiscountsCaptured += p.DiscountCaptured
	}

	outstanding := map[string]float64{}
	termCounts := map[string]int{}
	for _, inv := range invoices {
		termCounts[inv.TermsText]++

		if inv.IsPaid() {
			// A paid invoice with a discount whose payment captured
			// nothing is a missed saving.
			if inv.DiscountPct > 0 {
				if p, ok := paymentByInvoice[inv.ID]; ok && p.DiscountCaptured == 0 {
					report.DiscountsMissed += inv.Amount * inv.DiscountPct / 100
				}
			}
			continue
		}
		outstanding[inv.SupplierID] += inv.Amount
	}

	if total := report.DiscountsCaptured + report.DiscountsMissed; total > 0 {
		report.CaptureRate = report.DiscountsCaptured / total * 100
	}

	for supplierID, amount := range outstanding {
		name, ok := supplierName[supplierID]
		if !ok {
			name = "Unknown"
		}
		report.OutstandingBySupplier = append(report.OutstandingBySupplier, SupplierOutstanding{
			SupplierID: supplierID,
			Name:       name,
			Amount:     amount,
		})
	}
	sort.Slice(report.OutstandingBySupplier, func(i, j int) bool {
		a, b := report.OutstandingBySupplier[i], report.OutstandingBySupplier[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Name < b.Name
	})

	for term, count := range termCounts {
		report.TermsDistribution = append(report.TermsDistribution, TermCount{Terms: term, Count: count})
	}
	sort.Slice(report.TermsDistribution, func(i, j int) bool {
		a, b := report.TermsDistribution[i], report.TermsDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Terms < b.Terms
	})

	return report, nil
}
