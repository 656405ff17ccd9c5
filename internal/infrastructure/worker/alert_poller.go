package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/internal/finance"
)

// AlertPoller periodically fires invoice reminders whose trigger time has
// passed: due-date countdowns and discount-expiry warnings. Fired alerts are
// marked TRIGGERED so each reminder is delivered at most once.
type AlertPoller struct {
	alertRepo   port.AlertRepository
	invoiceRepo port.InvoiceRepository
	logger      *zap.Logger

	pollInterval time.Duration
	batchSize    int

	mu        sync.Mutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewAlertPoller creates a new alert poller
func NewAlertPoller(
	alertRepo port.AlertRepository,
	invoiceRepo port.InvoiceRepository,
	pollInterval time.Duration,
	batchSize int,
	logger *zap.Logger,
) *AlertPoller {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &AlertPoller{
		alertRepo:    alertRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger,
		pollInterval: pollInterval,
		batchSize:    batchSize,
	}
}

// Start starts the polling loop
func (p *AlertPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("alert poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.isRunning = true
	p.done = make(chan struct{})

	p.logger.Info("AlertPoller started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Int("batch_size", p.batchSize))

	go p.pollLoop()

	return nil
}

// Stop stops the polling loop and waits for it to exit
func (p *AlertPoller) Stop() {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return
	}
	p.isRunning = false
	p.cancel()
	done := p.done
	p.mu.Unlock()

	<-done
	p.logger.Info("AlertPoller stopped")
}

// Name returns the worker name for identification
func (p *AlertPoller) Name() string {
	return "AlertPoller"
}

func (p *AlertPoller) pollLoop() {
	defer close(p.done)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Fire anything already due on startup.
	p.fireDueAlerts()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.fireDueAlerts()
		}
	}
}

// fireDueAlerts drains one batch of due alerts.
func (p *AlertPoller) fireDueAlerts() {
	now := time.Now().UTC()

	alerts, err := p.alertRepo.GetDue(p.ctx, now, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to fetch due alerts", zap.Error(err))
		return
	}
	if len(alerts) == 0 {
		return
	}

	for _, alert := range alerts {
		p.fire(alert, now)
	}
}

func (p *AlertPoller) fire(alert *entity.Alert, now time.Time) {
	invoice, err := p.invoiceRepo.GetByID(p.ctx, alert.InvoiceID)
	if err != nil {
		p.logger.Error("Failed to load invoice for alert",
			zap.String("alert_id", alert.ID),
			zap.String("invoice_id", alert.InvoiceID),
			zap.Error(err))
		return
	}

	// The invoice may have been settled since the alert was scheduled;
	// retire the reminder silently.
	if invoice != nil && !invoice.IsPaid() {
		p.logger.Info("Invoice reminder",
			zap.String("type", alert.Type),
			zap.String("invoice_id", invoice.ID),
			zap.Float64("amount", invoice.Amount),
			zap.String("amount_inr", finance.FormatINR(invoice.Amount)),
			zap.String("due_date", invoice.DueDate.Format("2006-01-02")))
	}

	if err := p.alertRepo.MarkTriggered(p.ctx, alert.ID); err != nil {
		p.logger.Error("Failed to mark alert triggered",
			zap.String("alert_id", alert.ID),
			zap.Error(err))
	}
}
