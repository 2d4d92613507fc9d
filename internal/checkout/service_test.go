package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
)

type stubCheckoutRepo struct {
	headers        []*models.CheckoutRecord
	deletedHeaders []uuid.UUID
	lines          []models.CheckoutItem
	headerErr      error
	itemsErr       error
	deleteErr      error
}

func (s *stubCheckoutRepo) WithTx(tx *gorm.DB) CheckoutRepository { return s }

func (s *stubCheckoutRepo) CreateHeader(ctx context.Context, record *models.CheckoutRecord) (*models.CheckoutRecord, error) {
	if s.headerErr != nil {
		return nil, s.headerErr
	}
	record.ID = uuid.New()
	s.headers = append(s.headers, record)
	return record, nil
}

func (s *stubCheckoutRepo) CreateItems(ctx context.Context, items []models.CheckoutItem) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	s.lines = append(s.lines, items...)
	return nil
}

func (s *stubCheckoutRepo) DeleteHeader(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedHeaders = append(s.deletedHeaders, id)
	return nil
}

func (s *stubCheckoutRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error) {
	for _, header := range s.headers {
		if header.ID == id {
			copied := *header
			copied.Items = s.lines
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCheckoutRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error) {
	return nil, nil
}

type stubChecker struct {
	found map[uuid.UUID]bool
	err   error
	calls int
}

func (s *stubChecker) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	var count int64
	for _, id := range ids {
		if s.found[id] {
			count++
		}
	}
	return count, nil
}

func allOf(ids ...uuid.UUID) *stubChecker {
	found := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		found[id] = true
	}
	return &stubChecker{found: found}
}

func validSubmit() (SubmitInput, *stubChecker, *stubChecker) {
	itemA, itemB := uuid.New(), uuid.New()
	locA := uuid.New()
	input := SubmitInput{
		UserID:  uuid.New(),
		Purpose: "organic chemistry lab",
		Lines: []LineInput{
			{ItemID: itemA, LocationID: locA, Quantity: 2},
			{ItemID: itemB, LocationID: locA, Quantity: 1},
		},
	}
	return input, allOf(itemA, itemB), allOf(locA)
}

func newTestService(t *testing.T, repo *stubCheckoutRepo, items, locations *stubChecker) Service {
	t.Helper()
	svc, err := NewService(repo, items, locations, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSubmitRejectsDuplicatePairBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{}
	input, items, locations := validSubmit()
	input.Lines = append(input.Lines, input.Lines[0])
	svc := newTestService(t, repo, items, locations)

	_, err := svc.Submit(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.headers) != 0 || len(repo.lines) != 0 {
		t.Fatal("duplicate pair must be rejected before touching storage")
	}
	if items.calls != 0 || locations.calls != 0 {
		t.Fatal("duplicate pair must be rejected before existence lookups")
	}
}

func TestSubmitSamePairAtDifferentLocationsAllowed(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{}
	item := uuid.New()
	locA, locB := uuid.New(), uuid.New()
	input := SubmitInput{
		UserID:  uuid.New(),
		Purpose: "weekly restock",
		Lines: []LineInput{
			{ItemID: item, LocationID: locA, Quantity: 1},
			{ItemID: item, LocationID: locB, Quantity: 1},
		},
	}
	svc := newTestService(t, repo, allOf(item), allOf(locA, locB))

	record, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(record.Items))
	}
}

func TestSubmitRejectsUnknownItem(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{}
	input, _, locations := validSubmit()
	svc := newTestService(t, repo, &stubChecker{found: map[uuid.UUID]bool{}}, locations)

	_, err := svc.Submit(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.headers) != 0 {
		t.Fatal("existence check must run before any write")
	}
}

func TestSubmitCompensatesFailedLineInsert(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{itemsErr: errors.New("batch insert failed")}
	input, items, locations := validSubmit()
	svc := newTestService(t, repo, items, locations)

	_, err := svc.Submit(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependentOperation {
		t.Fatalf("expected dependent operation failure, got %v", err)
	}
	if len(repo.headers) != 1 || len(repo.deletedHeaders) != 1 {
		t.Fatalf("expected header insert then compensating delete, got %d/%d", len(repo.headers), len(repo.deletedHeaders))
	}
	if repo.deletedHeaders[0] != repo.headers[0].ID {
		t.Fatal("compensating delete must target the inserted header")
	}
}

func TestSubmitHeaderFailureWritesNothingElse(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{headerErr: errors.New("insert refused")}
	input, items, locations := validSubmit()
	svc := newTestService(t, repo, items, locations)

	_, err := svc.Submit(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if len(repo.lines) != 0 {
		t.Fatal("no lines may be written when the header insert fails")
	}
}

func TestSubmitNormalizesReturnDate(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{}
	input, items, locations := validSubmit()
	input.ReturnDate = "15/09/2026"
	svc := newTestService(t, repo, items, locations)

	record, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.ReturnDate == nil || *record.ReturnDate != "2026-09-15" {
		t.Fatalf("unexpected return date %v", record.ReturnDate)
	}
}

func TestSubmitBlankReturnDateStoredAbsent(t *testing.T) {
	t.Parallel()

	repo := &stubCheckoutRepo{}
	input, items, locations := validSubmit()
	input.ReturnDate = "   "
	svc := newTestService(t, repo, items, locations)

	record, err := svc.Submit(context.Background(), input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.ReturnDate != nil {
		t.Fatalf("blank return date should be absent, got %v", record.ReturnDate)
	}
}

func TestSubmitRejectsUnparseableReturnDate(t *testing.T) {
	t.Parallel()

	input, items, locations := validSubmit()
	input.ReturnDate = "next tuesday"
	svc := newTestService(t, &stubCheckoutRepo{}, items, locations)

	_, err := svc.Submit(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
