package entity

// Status constants for Invoice
const (
	InvoiceStatusActive  = "ACTIVE"
	InvoiceStatusDueSoon = "DUE_SOON"
	InvoiceStatusOverdue = "OVERDUE"
	InvoiceStatusPaid    = "PAID"
)

// Penalty type constants for Invoice
const (
	PenaltyTypeDaily   = "daily"
	PenaltyTypeMonthly = "monthly"
)

// Plan priority constants
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// Plan action constants
const (
	ActionPayNow      = "PAY_NOW"
	ActionPayThisWeek = "PAY_THIS_WEEK"
	ActionDefer       = "DEFER"
)

// Alert type constants
const (
	AlertDue7Days         = "DUE_7_DAYS"
	AlertDue3Days         = "DUE_3_DAYS"
	AlertDueToday         = "DUE_TODAY"
	AlertDiscountExpiring = "DISCOUNT_EXPIRING"
)

// Alert status constants
const (
	AlertStatusPending   = "PENDING"
	AlertStatusTriggered = "TRIGGERED"
)

// SupplierCategories is the category vocabulary offered when registering a supplier.
var SupplierCategories = []string{
	"Raw Materials",
	"Packaging",
	"Electronics",
	"Textiles",
	"Chemicals",
	"Food & Agri",
	"Machinery",
	"Other",
}

// CommonTerms lists the credit term presets offered on invoice entry.
var CommonTerms = []string{
	"Net 30",
	"Net 45",
	"Net 60",
	"2/10 Net 30",
	"3/10 Net 30",
	"2/10 Net 45",
	"3/15 Net 45",
}
