package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/enums"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// ListOrdersInput carries listing filters plus pagination.
type ListOrdersInput struct {
	Status     *enums.OrderStatus
	UserID     *uuid.UUID
	Query      string
	Pagination pagination.Params
}

// Service defines order lifecycle operations past checkout.
type Service interface {
	GetOrder(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) ([]OrderDTO, int64, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	CancelOrder(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds the order service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	// Guests own nothing. A non-admin may only read their own orders; a
	// not-found answer avoids confirming the order exists.
	if !actor.IsAdmin {
		if order.UserID == nil || *order.UserID != actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return ToOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) ([]OrderDTO, int64, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", *input.Status))
	}

	rows, total, err := s.repo.ListOrders(ctx, input.Pagination, OrderListFilters{
		Status: input.Status,
		UserID: input.UserID,
		Query:  input.Query,
	})
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return ToOrderDTOs(rows), total, nil
}

func (s *service) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]OrderDTO, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.ListOrders(ctx, ListOrdersInput{UserID: &userID, Pagination: params})
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown order status %q", next))
	}

	var updated *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot transition order from %s to %s", order.Status, next)).
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}

		if err := repo.UpdateStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		order, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = ToOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) CancelOrder(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !actor.IsAdmin {
			if order.UserID == nil || *order.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
		}

		if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot cancel order in status %s", order.Status)).
				WithDetails(map[string]any{"from": order.Status, "to": enums.OrderStatusCancelled})
		}

		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		order, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		updated = ToOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		// Items go first so the foreign key never dangles.
		if err := repo.DeleteOrderItems(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order items")
		}
		if err := repo.DeleteOrder(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}
