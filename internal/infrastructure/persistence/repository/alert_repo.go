package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// AlertRepository implements port.AlertRepository
type AlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *sql.DB, logger *zap.Logger) port.AlertRepository {
	return &AlertRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts a set of alerts in one transaction-friendly statement
func (r *AlertRepository) CreateBatch(ctx context.Context, alerts []*entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	query := `
		INSERT INTO alerts (id, invoice_id, type, status, trigger_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for _, alert := range alerts {
		_, err := r.getExecutor(ctx).ExecContext(ctx, query,
			alert.ID,
			alert.InvoiceID,
			alert.Type,
			alert.Status,
			alert.TriggerAt,
			alert.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create alert",
				zap.String("invoice_id", alert.InvoiceID),
				zap.String("type", alert.Type),
				zap.Error(err))
			return fmt.Errorf("failed to create alert: %w", err)
		}
	}

	return nil
}

// GetDue retrieves pending alerts whose trigger time has passed
func (r *AlertRepository) GetDue(ctx context.Context, asOf time.Time, limit int) ([]*entity.Alert, error) {
	query := `
		SELECT id, invoice_id, type, status, trigger_at, created_at
		FROM alerts
		WHERE status = ? AND trigger_at <= ?
		ORDER BY trigger_at ASC
		LIMIT ?
	`

	return r.queryAlerts(ctx, query, entity.AlertStatusPending, asOf, limit)
}

// MarkTriggered transitions an alert out of the pending state
func (r *AlertRepository) MarkTriggered(ctx context.Context, id string) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE alerts SET status = ? WHERE id = ?`, entity.AlertStatusTriggered, id)
	if err != nil {
		r.logger.Error("Failed to mark alert triggered", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s not found", id)
	}

	return nil
}

// ListByInvoiceID retrieves all alerts scheduled for an invoice
func (r *AlertRepository) ListByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.Alert, error) {
	query := `
		SELECT id, invoice_id, type, status, trigger_at, created_at
		FROM alerts
		WHERE invoice_id = ?
		ORDER BY trigger_at ASC
	`

	return r.queryAlerts(ctx, query, invoiceID)
}

func (r *AlertRepository) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]*entity.Alert, error) {
	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query alerts", zap.Error(err))
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*entity.Alert
	for rows.Next() {
		var alert entity.Alert
		err := rows.Scan(
			&alert.ID,
			&alert.InvoiceID,
			&alert.Type,
			&alert.Status,
			&alert.TriggerAt,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, &alert)
	}

	return alerts, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *AlertRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.AlertRepository = (*AlertRepository)(nil)
