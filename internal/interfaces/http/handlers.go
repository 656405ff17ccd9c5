package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinkp/creditflow/internal/application/service"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services  Services
	reportDir string
	logger    Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, reportDir string, logger Logger) *Handlers {
	return &Handlers{
		services:  services,
		reportDir: reportDir,
		logger:    logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateSupplierRequest represents the supplier registration payload
type CreateSupplierRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
}

// CreateInvoiceRequest represents the invoice entry payload. InvoiceDate is
// a calendar date in YYYY-MM-DD form.
type CreateInvoiceRequest struct {
	SupplierID  string  `json:"supplier_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Terms       string  `json:"terms"`
	InvoiceDate string  `json:"invoice_date" binding:"required"`
	PenaltyRate float64 `json:"penalty_rate"`
	PenaltyType string  `json:"penalty_type"`
	Notes       string  `json:"notes"`
}

// OptimizeRequest represents the optimizer run payload. A nil cash budget
// means the profile's current cash balance.
type OptimizeRequest struct {
	CashAvailable *float64 `json:"cash_available"`
}

// MetaResponse lists the vocabularies offered by entry forms
type MetaResponse struct {
	SupplierCategories []string `json:"supplier_categories"`
	CommonTerms        []string `json:"common_terms"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// GetMeta handles GET /api/meta
func (h *Handlers) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: MetaResponse{
			SupplierCategories: entity.SupplierCategories,
			CommonTerms:        entity.CommonTerms,
		},
	})
}

// CreateSupplier handles POST /api/suppliers
func (h *Handlers) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	supplier, err := h.services.Supplier.Create(c.Request.Context(), req.Name, req.Category, req.ContactPhone, req.ContactEmail)
	if err != nil {
		h.respondError(c, err, "failed to create supplier")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: supplier})
}

// ListSuppliers handles GET /api/suppliers
func (h *Handlers) ListSuppliers(c *gin.Context) {
	suppliers, err := h.services.Supplier.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to list suppliers")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: suppliers})
}

// DeleteSupplier handles DELETE /api/suppliers/:id
func (h *Handlers) DeleteSupplier(c *gin.Context) {
	if err := h.services.Supplier.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete supplier")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateInvoice handles POST /api/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	invoiceDate, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invoice_date must be YYYY-MM-DD"})
		return
	}

	invoice, err := h.services.Invoice.Create(c.Request.Context(), service.CreateInvoiceInput{
		SupplierID:  req.SupplierID,
		Amount:      req.Amount,
		TermsText:   req.Terms,
		InvoiceDate: invoiceDate,
		PenaltyRate: req.PenaltyRate,
		PenaltyType: req.PenaltyType,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(c, err, "failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: invoice})
}

// ListInvoices handles GET /api/invoices with an optional status filter
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.services.Invoice.List(c.Request.Context(), c.Query("status"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	detail, err := h.services.Invoice.GetDetail(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: detail})
}

// PayInvoice handles POST /api/invoices/:id/pay
func (h *Handlers) PayInvoice(c *gin.Context) {
	result, err := h.services.Payment.MarkPaid(c.Request.Context(), c.Param("id"), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to record payment")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// RunOptimizer handles POST /api/optimizer/run. An empty body runs against
// the profile's cash balance.
func (h *Handlers) RunOptimizer(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	plan, err := h.services.Optimizer.Optimize(c.Request.Context(), req.CashAvailable, time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to run optimizer")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: plan})
}

// ExportPlan handles POST /api/optimizer/export
func (h *Handlers) ExportPlan(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	now := time.Now().UTC()
	outputPath := filepath.Join(h.reportDir, fmt.Sprintf("payment_plan_%s.xlsx", now.Format("20060102_150405")))

	plan, err := h.services.Optimizer.Export(c.Request.Context(), req.CashAvailable, now, outputPath)
	if err != nil {
		h.respondError(c, err, "failed to export plan")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"plan":        plan,
			"output_path": outputPath,
		},
	})
}

// GetDashboard handles GET /api/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	kpis, err := h.services.Insight.Dashboard(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to compute dashboard")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: kpis})
}

// GetCashflow handles GET /api/cashflow
func (h *Handlers) GetCashflow(c *gin.Context) {
	projection, err := h.services.Insight.Cashflow(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to compute cash flow")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: projection})
}

// GetAnalytics handles GET /api/analytics
func (h *Handlers) GetAnalytics(c *gin.Context) {
	report, err := h.services.Insight.Analytics(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.respondError(c, err, "failed to compute analytics")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// LoadDemoData handles POST /api/seed
func (h *Handlers) LoadDemoData(c *gin.Context) {
	if err := h.services.Seed.LoadDemoData(c.Request.Context(), time.Now().UTC()); err != nil {
		h.respondError(c, err, "failed to load demo data")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true})
}

// respondError maps service errors to HTTP status codes. Unrecognized errors
// hide their detail behind the fallback message.
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrSupplierNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingSupplier),
		errors.Is(err, service.ErrMissingSupplierName),
		errors.Is(err, service.ErrInvalidContactEmail),
		errors.Is(err, service.ErrInvalidContactPhone),
		errors.Is(err, service.ErrNegativeCash):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvoiceAlreadyPaid),
		errors.Is(err, service.ErrAlreadySeeded):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
