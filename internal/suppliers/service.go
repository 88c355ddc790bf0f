package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/procura-platform/procura/internal/platform/httpx"
)

// Service wraps supplier directory business rules.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns suppliers matching the filters plus the total count.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Supplier, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 {
		filters.Limit = 10
	}
	return s.repo.List(ctx, filters)
}

// Get fetches a supplier by id.
func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new supplier.
func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

// Update validates and stores changes to an existing supplier.
func (s *Service) Update(ctx context.Context, id int64, supplier Supplier) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	if err := s.validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, supplier)
}

// Delete removes a supplier.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", httpx.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Code) == "" {
		return fmt.Errorf("%w: supplier code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", httpx.ErrValidation)
	}
	return nil
}
