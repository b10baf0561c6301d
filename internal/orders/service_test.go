package order

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/furnishd/furnishd-backend/pkg/db"
	"github.com/furnishd/furnishd-backend/pkg/db/models"
	"github.com/furnishd/furnishd-backend/pkg/enums"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := openTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.FromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestServiceGetOrderOwnership(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	created := mustCreateTestOrder(t, repo.db, &owner, enums.OrderStatusPending, "100.00")

	dto, err := svc.GetOrder(ctx, created.ID, Actor{UserID: owner})
	if err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if dto.TotalAmount != 100.00 {
		t.Fatalf("expected total 100.00, got %v", dto.TotalAmount)
	}

	_, err = svc.GetOrder(ctx, created.ID, Actor{UserID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected stranger read to report not found, got %v", err)
	}

	if _, err := svc.GetOrder(ctx, created.ID, Actor{UserID: uuid.New(), IsAdmin: true}); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestServiceSetStatusFollowsLifecycle(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo.db, nil, enums.OrderStatusPending, "10.00")

	for _, next := range []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		dto, err := svc.SetStatus(ctx, created.ID, next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if dto.Status != string(next) {
			t.Fatalf("expected status %s, got %s", next, dto.Status)
		}
	}

	// Delivered is terminal.
	_, err := svc.SetStatus(ctx, created.ID, enums.OrderStatusCancelled)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition off delivered, got %v", err)
	}
}

func TestServiceSetStatusRejectsSkips(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo.db, nil, enums.OrderStatusPending, "10.00")

	_, err := svc.SetStatus(ctx, created.ID, enums.OrderStatusDelivered)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition pending->delivered, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected transition details, got %T", typed.Details())
	}
	if details["from"] != enums.OrderStatusPending || details["to"] != enums.OrderStatusDelivered {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestServiceSetStatusSameStatusIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo.db, nil, enums.OrderStatusProcessing, "10.00")

	dto, err := svc.SetStatus(ctx, created.ID, enums.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("same-status update: %v", err)
	}
	if dto.Status != string(enums.OrderStatusProcessing) {
		t.Fatalf("expected processing, got %s", dto.Status)
	}
}

func TestServiceSetStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetStatus(context.Background(), uuid.New(), enums.OrderStatusProcessing)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestServiceCancelOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()

	pending := mustCreateTestOrder(t, repo.db, &owner, enums.OrderStatusPending, "10.00")
	dto, err := svc.CancelOrder(ctx, pending.ID, Actor{UserID: owner})
	if err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if dto.Status != string(enums.OrderStatusCancelled) {
		t.Fatalf("expected cancelled, got %s", dto.Status)
	}

	shipped := mustCreateTestOrder(t, repo.db, &owner, enums.OrderStatusShipped, "10.00")
	_, err = svc.CancelOrder(ctx, shipped.ID, Actor{UserID: owner})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInvalidTransition {
		t.Fatalf("expected shipped cancel rejection, got %v", err)
	}

	other := mustCreateTestOrder(t, repo.db, &owner, enums.OrderStatusPending, "10.00")
	_, err = svc.CancelOrder(ctx, other.ID, Actor{UserID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected stranger cancel to report not found, got %v", err)
	}
}

func TestServiceDeleteOrder(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	created := mustCreateTestOrder(t, repo.db, nil, enums.OrderStatusCancelled, "50.00")
	mustCreateTestOrderItem(t, repo.db, created.ID, "Lamp", 1, "50.00")

	if err := svc.DeleteOrder(ctx, created.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Fatal("expected order removed")
	}

	var itemCount int64
	if err := repo.db.Model(&models.OrderItem{}).Where("order_id = ?", created.ID).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("expected items removed, found %d", itemCount)
	}
}

func TestServiceListUserOrders(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	owner := uuid.New()
	mustCreateTestOrder(t, repo.db, &owner, enums.OrderStatusPending, "10.00")
	mustCreateTestOrder(t, repo.db, nil, enums.OrderStatusPending, "20.00")

	rows, total, err := svc.ListUserOrders(ctx, owner, pagination.Params{})
	if err != nil {
		t.Fatalf("list user orders: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 order, got total=%d len=%d", total, len(rows))
	}

	_, _, err = svc.ListUserOrders(ctx, uuid.Nil, pagination.Params{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for nil user, got %v", err)
	}
}
