package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/internal/inventory"
	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/pagination"
)

type stubBatchRepo struct {
	inserted  []models.InventoryItem
	upserted  []models.InventoryItem
	insertErr error
}

func (s *stubBatchRepo) WithTx(tx *gorm.DB) inventory.ItemRepository { return s }

func (s *stubBatchRepo) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	return item, nil
}

func (s *stubBatchRepo) Update(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	return item, nil
}

func (s *stubBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBatchRepo) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBatchRepo) List(ctx context.Context, filter inventory.ListFilter, cursor *pagination.Cursor, limit int) ([]models.InventoryItem, error) {
	return nil, nil
}

func (s *stubBatchRepo) ListAll(ctx context.Context, filter inventory.ListFilter) ([]models.InventoryItem, error) {
	return nil, nil
}

func (s *stubBatchRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubBatchRepo) BatchCreate(ctx context.Context, items []models.InventoryItem) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, items...)
	return nil
}

func (s *stubBatchRepo) BatchUpsertBySKU(ctx context.Context, items []models.InventoryItem) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.upserted = append(s.upserted, items...)
	return nil
}

func (s *stubBatchRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubCategoryLister struct{ categories []models.Category }

func (s stubCategoryLister) List(ctx context.Context) ([]models.Category, error) {
	return s.categories, nil
}

type stubLocationLister struct{ locations []models.Location }

func (s stubLocationLister) List(ctx context.Context) ([]models.Location, error) {
	return s.locations, nil
}

func newImportService(t *testing.T, repo *stubBatchRepo) Service {
	t.Helper()
	svc, err := NewService(
		repo,
		stubCategoryLister{categories: []models.Category{{ID: uuid.New(), Name: "Chemicals"}}},
		stubLocationLister{locations: []models.Location{{ID: uuid.New(), Name: "Cold Room"}}},
		100,
		nil,
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestImportPartialSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubBatchRepo{}
	svc := newImportService(t, repo)

	csvData := strings.Join([]string{
		"name,category,units,price_per_unit",
		"Acetone,chemicals,10,4.20",
		",Chemicals,1,1",
		"Ethanol,Unknown Cat,5,",
	}, "\n")

	result, err := svc.Import(context.Background(), strings.NewReader(csvData), "upload.csv", ModeInsert)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Accepted != 2 {
		t.Fatalf("expected 2 accepted rows, got %d", result.Accepted)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected 1 skipped row, got %d", result.Skipped)
	}
	if len(result.Problems) != 2 {
		t.Fatalf("expected name error plus category warning, got %v", result.Problems)
	}
	if len(repo.inserted) != 2 {
		t.Fatalf("expected 2 inserted items, got %d", len(repo.inserted))
	}
	if repo.inserted[0].Category == nil || *repo.inserted[0].Category != "Chemicals" {
		t.Fatalf("expected canonical category, got %v", repo.inserted[0].Category)
	}
	if repo.inserted[1].Category != nil {
		t.Fatal("unknown category must import as null")
	}
}

func TestImportUpsertModeUsesSKUPath(t *testing.T) {
	t.Parallel()

	repo := &stubBatchRepo{}
	svc := newImportService(t, repo)

	csvData := "name,sku\nAcetone,AC-1\n"
	result, err := svc.Import(context.Background(), strings.NewReader(csvData), "upload.csv", ModeUpsertSKU)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Accepted != 1 || len(repo.upserted) != 1 || len(repo.inserted) != 0 {
		t.Fatalf("expected the upsert path, got %+v", result)
	}
}

func TestImportStoreFailureReportedVerbatim(t *testing.T) {
	t.Parallel()

	repo := &stubBatchRepo{insertErr: errors.New("value too long for column sku")}
	svc := newImportService(t, repo)

	_, err := svc.Import(context.Background(), strings.NewReader("name\nAcetone\n"), "upload.csv", ModeInsert)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !strings.Contains(typed.Error(), "value too long") {
		t.Fatalf("store error must surface verbatim, got %q", typed.Error())
	}
}

func TestImportRejectsEmptyFile(t *testing.T) {
	t.Parallel()

	svc := newImportService(t, &stubBatchRepo{})
	_, err := svc.Import(context.Background(), strings.NewReader("name\n"), "upload.csv", ModeInsert)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	svc := newImportService(t, &stubBatchRepo{})
	_, err := svc.Import(context.Background(), strings.NewReader("x"), "upload.pdf", ModeInsert)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
