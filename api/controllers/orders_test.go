package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/furnishd/furnishd-backend/api/middleware"
	order "github.com/furnishd/furnishd-backend/internal/orders"
	"github.com/furnishd/furnishd-backend/pkg/enums"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

type stubOrderService struct {
	dto       *order.OrderDTO
	list      []order.OrderDTO
	total     int64
	err       error
	gotActor  order.Actor
	gotStatus enums.OrderStatus
	gotInput  order.ListOrdersInput
	gotUser   uuid.UUID
}

func (s *stubOrderService) GetOrder(ctx context.Context, id uuid.UUID, actor order.Actor) (*order.OrderDTO, error) {
	s.gotActor = actor
	return s.dto, s.err
}

func (s *stubOrderService) ListOrders(ctx context.Context, input order.ListOrdersInput) ([]order.OrderDTO, int64, error) {
	s.gotInput = input
	return s.list, s.total, s.err
}

func (s *stubOrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]order.OrderDTO, int64, error) {
	s.gotUser = userID
	return s.list, s.total, s.err
}

func (s *stubOrderService) SetStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*order.OrderDTO, error) {
	s.gotStatus = next
	return s.dto, s.err
}

func (s *stubOrderService) CancelOrder(ctx context.Context, id uuid.UUID, actor order.Actor) (*order.OrderDTO, error) {
	s.gotActor = actor
	return s.dto, s.err
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func TestGetOrderForwardsActor(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{dto: &order.OrderDTO{ID: uuid.New(), Status: "pending"}}
	userID := uuid.New()

	router := chi.NewRouter()
	router.Get("/orders/{id}", GetOrder(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	ctx := middleware.WithUserID(req.Context(), userID)
	ctx = middleware.WithIsAdmin(ctx, true)
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotActor.UserID != userID || !svc.gotActor.IsAdmin {
		t.Fatalf("actor not forwarded: %+v", svc.gotActor)
	}
}

func TestListMyOrdersUsesContextUser(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{list: []order.OrderDTO{{ID: uuid.New()}}, total: 1}
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	resp := httptest.NewRecorder()
	ListMyOrders(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotUser != userID {
		t.Fatalf("expected lookup for %s got %s", userID, svc.gotUser)
	}

	var envelope struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Count != 1 {
		t.Fatalf("expected count 1 got %d", envelope.Count)
	}
}

func TestAdminListOrdersParsesFilters(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{}
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/orders?status=shipped&user_id="+userID.String()+"&search=ada", nil)
	resp := httptest.NewRecorder()
	AdminListOrders(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotInput.Status == nil || *svc.gotInput.Status != enums.OrderStatusShipped {
		t.Fatal("status filter not forwarded")
	}
	if svc.gotInput.UserID == nil || *svc.gotInput.UserID != userID {
		t.Fatal("user filter not forwarded")
	}
	if svc.gotInput.Query != "ada" {
		t.Fatalf("expected query ada got %q", svc.gotInput.Query)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{}
	req := httptest.NewRequest(http.MethodGet, "/orders?status=misplaced", nil)
	resp := httptest.NewRecorder()
	AdminListOrders(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminSetOrderStatus(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{dto: &order.OrderDTO{ID: uuid.New(), Status: "processing"}}

	router := chi.NewRouter()
	router.Put("/orders/{id}", AdminSetOrderStatus(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/orders/"+uuid.NewString(), strings.NewReader(`{"status":"processing"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotStatus != enums.OrderStatusProcessing {
		t.Fatalf("expected processing got %s", svc.gotStatus)
	}
}

func TestAdminSetOrderStatusInvalidTransition(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeInvalidTransition, "cannot move order from pending to delivered").
		WithDetails(map[string]any{"from": "pending", "to": "delivered"})}

	router := chi.NewRouter()
	router.Put("/orders/{id}", AdminSetOrderStatus(svc, nil))

	req := httptest.NewRequest(http.MethodPut, "/orders/"+uuid.NewString(), strings.NewReader(`{"status":"delivered"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Code != string(pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected invalid transition code got %q", envelope.Code)
	}
	if envelope.Details["from"] != "pending" || envelope.Details["to"] != "delivered" {
		t.Fatalf("expected transition details, got %+v", envelope.Details)
	}
}

func TestCancelOrderForwardsActor(t *testing.T) {
	t.Parallel()

	svc := &stubOrderService{dto: &order.OrderDTO{ID: uuid.New(), Status: "cancelled"}}
	userID := uuid.New()

	router := chi.NewRouter()
	router.Post("/orders/{id}/cancel", CancelOrder(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/orders/"+uuid.NewString()+"/cancel", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotActor.UserID != userID || svc.gotActor.IsAdmin {
		t.Fatalf("actor not forwarded: %+v", svc.gotActor)
	}
}
