package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/furnishd/furnishd-backend/pkg/enums"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

// revenueWindow bounds the dashboard revenue figure.
const revenueWindow = 30 * 24 * time.Hour

// Dashboard is the admin overview payload.
type Dashboard struct {
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	TotalOrders      int64            `json:"total_orders"`
	Revenue30d       float64          `json:"revenue_30d"`
	TotalProducts    int64            `json:"total_products"`
	OutOfStock       int64            `json:"out_of_stock"`
	TotalUsers       int64            `json:"total_users"`
	ContactMessages  int64            `json:"contact_messages"`
	UnreadMessages   int64            `json:"unread_messages"`
	PendingOrders    int64            `json:"pending_orders"`
	ProcessingOrders int64            `json:"processing_orders"`
}

// Service serves the admin dashboard.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds the stats service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Dashboard gathers every aggregate and reports all query failures together
// instead of stopping at the first one.
func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	out := &Dashboard{OrdersByStatus: map[string]int64{}}
	var errs []error

	byStatus, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("orders by status: %w", err))
	} else {
		for status, count := range byStatus {
			out.OrdersByStatus[string(status)] = count
			out.TotalOrders += count
		}
		out.PendingOrders = byStatus[enums.OrderStatusPending]
		out.ProcessingOrders = byStatus[enums.OrderStatusProcessing]
	}

	revenue, err := s.repo.SumRevenue(ctx, s.now().Add(-revenueWindow))
	if err != nil {
		errs = append(errs, fmt.Errorf("revenue: %w", err))
	} else {
		out.Revenue30d = revenue.InexactFloat64()
	}

	totalProducts, outOfStock, err := s.repo.CountProducts(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("products: %w", err))
	} else {
		out.TotalProducts = totalProducts
		out.OutOfStock = outOfStock
	}

	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("users: %w", err))
	} else {
		out.TotalUsers = totalUsers
	}

	messages, unread, err := s.repo.CountContactMessages(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("contact messages: %w", err))
	} else {
		out.ContactMessages = messages
		out.UnreadMessages = unread
	}

	if combined := multierr.Combine(errs...); combined != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "gather dashboard stats")
	}
	return out, nil
}
