package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/pagination"
)

type stubItemRepo struct {
	created   *models.InventoryItem
	updated   *models.InventoryItem
	found     *models.InventoryItem
	listed    []models.InventoryItem
	findErr   error
	createErr error
	deleteErr error
}

func (s *stubItemRepo) WithTx(tx *gorm.DB) ItemRepository { return s }

func (s *stubItemRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	item.ID = uuid.New()
	s.created = item
	return item, nil
}

func (s *stubItemRepo) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	s.updated = item
	return item, nil
}

func (s *stubItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *stubItemRepo) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

func (s *stubItemRepo) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error) {
	if limit < len(s.listed) {
		return s.listed[:limit], nil
	}
	return s.listed, nil
}

func (s *stubItemRepo) ListAll(ctx context.Context, filter ListFilter) ([]models.InventoryItem, error) {
	return s.listed, nil
}

func (s *stubItemRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return int64(len(ids)), nil
}

func (s *stubItemRepo) BatchCreate(ctx context.Context, items []models.InventoryItem) error {
	return nil
}

func (s *stubItemRepo) BatchUpsertBySKU(ctx context.Context, items []models.InventoryItem) error {
	return nil
}

func (s *stubItemRepo) Delete(ctx context.Context, id uuid.UUID) error { return s.deleteErr }

func TestCreateItemRequiresName(t *testing.T) {
	t.Parallel()

	repo := &stubItemRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, _, err = svc.CreateItem(context.Background(), map[string]any{"name": "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("repository write happened despite validation failure")
	}
}

func TestCreateItemSanitizesBeforeInsert(t *testing.T) {
	t.Parallel()

	repo := &stubItemRepo{}
	svc, _ := NewService(repo)

	item, warnings, err := svc.CreateItem(context.Background(), map[string]any{
		"name":        "Acetone",
		"units":       "",
		"total_value": "999",
		"date_added":  "05/03/2026",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if item.Units != nil {
		t.Fatalf("blank units should insert as null, got %v", item.Units)
	}
	if item.DateAdded == nil || *item.DateAdded != "2026-03-05" {
		t.Fatalf("unexpected date_added %v", item.DateAdded)
	}
}

func TestGetItemNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubItemRepo{findErr: gorm.ErrRecordNotFound})
	_, err := svc.GetItem(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListItemsReturnsNextCursor(t *testing.T) {
	t.Parallel()

	items := make([]models.InventoryItem, 0, 3)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		items = append(items, models.InventoryItem{
			ID:        uuid.New(),
			Name:      "item",
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		})
	}
	svc, _ := NewService(&stubItemRepo{listed: items})

	page, next, err := svc.ListItems(context.Background(), ListFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page))
	}
	if next == "" {
		t.Fatal("expected a next cursor")
	}
	cursor, err := pagination.ParseCursor(next)
	if err != nil || cursor == nil {
		t.Fatalf("cursor should round-trip: %v", err)
	}
	if cursor.ID != page[1].ID {
		t.Fatal("cursor should point at the last returned row")
	}
}

func TestListItemsRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(&stubItemRepo{})
	_, _, err := svc.ListItems(context.Background(), ListFilter{}, pagination.Params{Cursor: "%%%"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
