package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
)

// SupplierRepository implements port.SupplierRepository
type SupplierRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *sql.DB, logger *zap.Logger) port.SupplierRepository {
	return &SupplierRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new supplier record
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, category, contact_phone, contact_email, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		supplier.ID,
		supplier.Name,
		supplier.Category,
		supplier.ContactPhone,
		supplier.ContactEmail,
		supplier.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create supplier", zap.Error(err))
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

// GetByID retrieves a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, name, category, contact_phone, contact_email, created_at
		FROM suppliers
		WHERE id = ?
	`

	var supplier entity.Supplier
	err := r.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Category,
		&supplier.ContactPhone,
		&supplier.ContactEmail,
		&supplier.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get supplier by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

// List retrieves all suppliers ordered by name
func (r *SupplierRepository) List(ctx context.Context) ([]*entity.Supplier, error) {
	query := `
		SELECT id, name, category, contact_phone, contact_email, created_at
		FROM suppliers
		ORDER BY name ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list suppliers", zap.Error(err))
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*entity.Supplier
	for rows.Next() {
		var supplier entity.Supplier
		err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.Category,
			&supplier.ContactPhone,
			&supplier.ContactEmail,
			&supplier.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, &supplier)
	}

	return suppliers, rows.Err()
}

// Delete removes a supplier. Invoices keep their supplier reference.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	_, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM suppliers WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete supplier", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	return nil
}

// getExecutor returns appropriate executor based on context
func (r *SupplierRepository) getExecutor(ctx context.Context) executor {
	if tx, ok := ctx.Value(contextKey("tx")).(*sql.Tx); ok {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.SupplierRepository = (*SupplierRepository)(nil)
