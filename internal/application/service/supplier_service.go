package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashwinkp/creditflow/internal/application/port"
	"github.com/ashwinkp/creditflow/internal/domain/entity"
	"github.com/ashwinkp/creditflow/pkg/utils"
)

var (
	ErrMissingSupplierName = errors.New("supplier name is required")
	ErrInvalidContactEmail = errors.New("invalid contact email")
	ErrInvalidContactPhone = errors.New("invalid contact phone")
)

// SupplierService manages the supplier directory. Deleting a supplier leaves
// its invoices in place; they keep the back-reference.
type SupplierService interface {
	Create(ctx context.Context, name, category, contactPhone, contactEmail string) (*entity.Supplier, error)
	List(ctx context.Context) ([]*entity.Supplier, error)
	Delete(ctx context.Context, id string) error
}

type supplierServiceImpl struct {
	supplierRepo port.SupplierRepository
	logger       Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo port.SupplierRepository, logger Logger) SupplierService {
	return &supplierServiceImpl{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

func (s *supplierServiceImpl) Create(ctx context.Context, name, category, contactPhone, contactEmail string) (*entity.Supplier, error) {
	name = utils.SanitizeString(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrMissingSupplierName
	}
	if category == "" {
		category = "Other"
	}
	if contactEmail != "" {
		if err := utils.ValidateEmail(contactEmail); err != nil {
			return nil, ErrInvalidContactEmail
		}
	}
	if contactPhone != "" {
		if err := utils.ValidatePhone(contactPhone); err != nil {
			return nil, ErrInvalidContactPhone
		}
	}

	supplier := &entity.Supplier{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     category,
		ContactPhone: contactPhone,
		ContactEmail: contactEmail,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		s.logger.Error("Failed to create supplier", "error", err, "name", name)
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	s.logger.Info("Supplier created", "supplier_id", supplier.ID, "name", name, "category", category)
	return supplier, nil
}

func (s *supplierServiceImpl) List(ctx context.Context) ([]*entity.Supplier, error) {
	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list suppliers", "error", err)
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *supplierServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete supplier", "error", err, "supplier_id", id)
		return fmt.Errorf("delete supplier: %w", err)
	}
	s.logger.Info("Supplier deleted", "supplier_id", id)
	return nil
}
