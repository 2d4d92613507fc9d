package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

// Service exposes category and threshold operations.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpsertThreshold(ctx context.Context, category string, threshold *decimal.Decimal) (*models.CategoryThreshold, error)
	ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error)
}

type service struct {
	repo *Repository
}

// NewService builds a category service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCategory inserts a new category, rejecting duplicates by name.
func (s *service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	created, err := s.repo.Create(ctx, &models.Category{Name: trimmed})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create category")
	}
	return created, nil
}

// ListCategories returns all categories.
func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list categories")
	}
	return categories, nil
}

// UpsertThreshold sets or replaces the default threshold for a category name.
// A nil threshold disables the rule without deleting the row.
func (s *service) UpsertThreshold(ctx context.Context, category string, threshold *decimal.Decimal) (*models.CategoryThreshold, error) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if threshold != nil && threshold.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must not be negative")
	}
	saved, err := s.repo.UpsertThreshold(ctx, &models.CategoryThreshold{
		Category:         trimmed,
		DefaultThreshold: threshold,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save threshold")
	}
	return saved, nil
}

// ListThresholds returns all per-category thresholds.
func (s *service) ListThresholds(ctx context.Context) ([]models.CategoryThreshold, error) {
	thresholds, err := s.repo.ListThresholds(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list thresholds")
	}
	return thresholds, nil
}
