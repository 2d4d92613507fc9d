package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/labstockhq/labstock-backend/pkg/db/models"
	pkgerrors "github.com/labstockhq/labstock-backend/pkg/errors"
	"github.com/labstockhq/labstock-backend/pkg/logger"
	"github.com/labstockhq/labstock-backend/pkg/metrics"
)

const workflowName = "checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type idChecker interface {
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// LineInput is one (item, location, quantity) tuple in a submission.
type LineInput struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Quantity   int
}

// SubmitInput is the full checkout submission payload.
type SubmitInput struct {
	UserID     uuid.UUID
	Purpose    string
	ReturnDate string
	Lines      []LineInput
}

// Service runs the checkout submission pipeline.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.CheckoutRecord, error)
	GetCheckout(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error)
}

type service struct {
	repo      CheckoutRepository
	items     idChecker
	locations idChecker
	tx        txRunner
	metrics   *metrics.WorkflowMetrics
	logg      *logger.Logger
}

// NewService builds a checkout service. The transaction runner is optional:
// when nil, line inserts that fail are compensated by deleting the header row
// inserted just before them.
func NewService(
	repo CheckoutRepository,
	items idChecker,
	locations idChecker,
	tx txRunner,
	workflowMetrics *metrics.WorkflowMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item checker required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location checker required")
	}
	return &service{
		repo:      repo,
		items:     items,
		locations: locations,
		tx:        tx,
		metrics:   workflowMetrics,
		logg:      logg,
	}, nil
}

var returnDateSlashRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// Submit validates the cart, verifies every referenced entity exists, then
// persists the header and its lines. All checks run before the first write.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.CheckoutRecord, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration(workflowName, time.Since(start)) }()

	returnDate, err := s.validate(input)
	if err != nil {
		s.metrics.IncRejected(workflowName)
		return nil, err
	}

	if err := s.verifyReferences(ctx, input.Lines); err != nil {
		s.metrics.IncRejected(workflowName)
		return nil, err
	}

	header := &models.CheckoutRecord{
		UserID:     input.UserID,
		Purpose:    strings.TrimSpace(input.Purpose),
		ReturnDate: returnDate,
	}

	if s.tx != nil {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			inserted, insertErr := repo.CreateHeader(ctx, header)
			if insertErr != nil {
				return insertErr
			}
			return repo.CreateItems(ctx, buildLines(inserted.ID, input.Lines))
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to submit checkout")
		}
	} else {
		if err := s.submitCompensated(ctx, header, input.Lines); err != nil {
			return nil, err
		}
	}

	record, err := s.repo.FindByID(ctx, header.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load submitted checkout")
	}
	s.metrics.IncSuccess(workflowName)
	return record, nil
}

// submitCompensated inserts the header first, then the lines, and deletes the
// header when the line batch fails so no orphaned header survives.
func (s *service) submitCompensated(ctx context.Context, header *models.CheckoutRecord, lines []LineInput) error {
	inserted, err := s.repo.CreateHeader(ctx, header)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create checkout")
	}

	if err := s.repo.CreateItems(ctx, buildLines(inserted.ID, lines)); err != nil {
		s.metrics.IncCompensated(workflowName)
		if delErr := s.repo.DeleteHeader(ctx, inserted.ID); delErr != nil {
			if s.logg != nil {
				logCtx := s.logg.WithField(ctx, "checkout_id", inserted.ID.String())
				s.logg.Error(logCtx, "checkout compensation failed", multierr.Append(err, delErr))
			}
			err = multierr.Append(err, delErr)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependentOperation, err, "checkout items failed to save, checkout rolled back")
	}
	return nil
}

func (s *service) validate(input SubmitInput) (*string, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purpose is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout must contain at least one item")
	}

	type pair struct{ item, location uuid.UUID }
	seen := make(map[pair]struct{}, len(input.Lines))
	for _, line := range input.Lines {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "every line needs an item id")
		}
		if line.LocationID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "every line needs a location id")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
		}
		key := pair{line.ItemID, line.LocationID}
		if _, dup := seen[key]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate line for item %s at location %s", line.ItemID, line.LocationID))
		}
		seen[key] = struct{}{}
	}

	return normalizeReturnDate(input.ReturnDate)
}

// verifyReferences compares the count of found rows against the count of
// distinct requested ids, which catches typos and stale client caches in one
// query per table.
func (s *service) verifyReferences(ctx context.Context, lines []LineInput) error {
	itemIDs := distinctItemIDs(lines)
	locationIDs := distinctLocationIDs(lines)

	found, err := s.items.CountByIDs(ctx, itemIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify items")
	}
	if found != int64(len(itemIDs)) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more items do not exist")
	}

	found, err = s.locations.CountByIDs(ctx, locationIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify locations")
	}
	if found != int64(len(locationIDs)) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "one or more locations do not exist")
	}
	return nil
}

// GetCheckout loads a checkout with its lines.
func (s *service) GetCheckout(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load checkout")
	}
	return record, nil
}

// ListByUser returns the newest checkouts submitted by one user.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	records, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list checkouts")
	}
	return records, nil
}

func buildLines(checkoutID uuid.UUID, lines []LineInput) []models.CheckoutItem {
	out := make([]models.CheckoutItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.CheckoutItem{
			CheckoutID: checkoutID,
			ItemID:     line.ItemID,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
		})
	}
	return out
}

func distinctItemIDs(lines []LineInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ItemID]; ok {
			continue
		}
		seen[line.ItemID] = struct{}{}
		out = append(out, line.ItemID)
	}
	return out
}

func distinctLocationIDs(lines []LineInput) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.LocationID]; ok {
			continue
		}
		seen[line.LocationID] = struct{}{}
		out = append(out, line.LocationID)
	}
	return out
}

// normalizeReturnDate stores blank input as absent and accepts either ISO or
// day/month/year slash dates.
func normalizeReturnDate(raw string) (*string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if m := returnDateSlashRe.FindStringSubmatch(trimmed); m != nil {
		t, err := time.Parse("2/1/2006", trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid return date %q", raw))
		}
		iso := t.Format("2006-01-02")
		return &iso, nil
	}
	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid return date %q", raw))
	}
	iso := t.Format("2006-01-02")
	return &iso, nil
}
