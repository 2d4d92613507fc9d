package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/labstockhq/labstock-backend/api/middleware"
	checkoutsvc "github.com/labstockhq/labstock-backend/internal/checkout"
	"github.com/labstockhq/labstock-backend/pkg/db/models"
)

type stubCheckoutService struct {
	submitted *checkoutsvc.SubmitInput
	record    *models.CheckoutRecord
	err       error
}

func (s *stubCheckoutService) Submit(ctx context.Context, input checkoutsvc.SubmitInput) (*models.CheckoutRecord, error) {
	s.submitted = &input
	return s.record, s.err
}

func (s *stubCheckoutService) GetCheckout(ctx context.Context, id uuid.UUID) (*models.CheckoutRecord, error) {
	return s.record, s.err
}

func (s *stubCheckoutService) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.CheckoutRecord, error) {
	return nil, s.err
}

func TestCheckoutSubmitSuccess(t *testing.T) {
	userID := uuid.New()
	record := &models.CheckoutRecord{ID: uuid.New(), UserID: userID}
	svc := &stubCheckoutService{record: record}
	handler := CheckoutSubmit(svc, nil)

	body := `{
		"purpose": "  practical session  ",
		"items": [{"item_id": "` + uuid.NewString() + `", "location_id": "` + uuid.NewString() + `", "quantity": 2}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkouts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.submitted == nil {
		t.Fatal("expected service call")
	}
	if svc.submitted.UserID != userID {
		t.Fatalf("expected user %s got %s", userID, svc.submitted.UserID)
	}
	if svc.submitted.Purpose != "practical session" {
		t.Fatalf("expected trimmed purpose, got %q", svc.submitted.Purpose)
	}

	var envelope struct {
		Data models.CheckoutRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != record.ID {
		t.Fatalf("unexpected checkout id: %s", envelope.Data.ID)
	}
}

func TestCheckoutSubmitMissingUserContext(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := CheckoutSubmit(svc, nil)

	body := `{"purpose": "x", "items": [{"item_id": "` + uuid.NewString() + `", "location_id": "` + uuid.NewString() + `", "quantity": 1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkouts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.submitted != nil {
		t.Fatal("service must not be called without user context")
	}
}

func TestCheckoutSubmitRejectsEmptyCart(t *testing.T) {
	svc := &stubCheckoutService{}
	handler := CheckoutSubmit(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkouts", strings.NewReader(`{"purpose": "x", "items": []}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.submitted != nil {
		t.Fatal("service must not be called for an invalid payload")
	}
}

func TestCheckoutDetailInvalidID(t *testing.T) {
	handler := CheckoutDetail(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/not-a-uuid", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
