package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// ProfileRepository implements port.ProfileRepository. The profile table
// holds a single row seeded by the initial migration.
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) port.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the business profile
func (r *ProfileRepository) Get(ctx context.Context) (*entity.Profile, error) {
	query := `
		SELECT id, business_name, cash_balance, updated_at
		FROM profile
		LIMIT 1
	`

	var profile entity.Profile
	err := r.getExecutor(ctx).QueryRowContext(ctx, query).Scan(
		&profile.ID,
		&profile.BusinessName,
		&profile.CashBalance,
		&profile.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to get profile", zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// AdjustCashBalance applies a signed delta to the cash balance and returns
// the new balance
func (r *ProfileRepository) AdjustCashBalance(ctx context.Context, delta float64) (float64, error) {
	query := `
		UPDATE profile
		SET cash_balance = cash_balance + ?, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, delta); err != nil {
		r.logger.Error("Failed to adjust cash balance", zap.Float64("delta", delta), zap.Error(err))
		return 0, fmt.Errorf("failed to adjust cash balance: %w", err)
	}

	var balance float64
	err := r.getExecutor(ctx).QueryRowContext(ctx, `SELECT cash_balance FROM profile LIMIT 1`).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to read cash balance: %w", err)
	}

	return balance, nil
}

// SetCashBalance overwrites the cash balance
func (r *ProfileRepository) SetCashBalance(ctx context.Context, balance float64) error {
	query := `
		UPDATE profile
		SET cash_balance = ?, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, balance); err != nil {
		r.logger.Error("Failed to set cash balance", zap.Float64("balance", balance), zap.Error(err))
		return fmt.Errorf("failed to set cash balance: %w", err)
	}

	return nil
}

// getExecutor returns appropriate executor based on context
func (r *ProfileRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ProfileRepository = (*ProfileRepository)(nil)
