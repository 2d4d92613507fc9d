package locations

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

// Service exposes storage location operations.
type Service interface {
	CreateLocation(ctx context.Context, name string) (*models.Location, error)
	ListLocations(ctx context.Context) ([]models.Location, error)
}

type service struct {
	repo *Repository
}

// NewService builds a location service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

// CreateLocation inserts a new named location.
func (s *service) CreateLocation(ctx context.Context, name string) (*models.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}
	created, err := s.repo.Create(ctx, &models.Location{Name: trimmed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create location")
	}
	return created, nil
}

// ListLocations returns all locations.
func (s *service) ListLocations(ctx context.Context) ([]models.Location, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list locations")
	}
	return locations, nil
}
