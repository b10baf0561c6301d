package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	order "github.com/furnishd/furnishd-backend/internal/orders"
	product "github.com/furnishd/furnishd-backend/internal/products"
	"github.com/furnishd/furnishd-backend/pkg/db/models"
	"github.com/furnishd/furnishd-backend/pkg/enums"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

// totalTolerance absorbs float rounding between the storefront's subtotal
// and the server-recomputed total. Anything past a cent is a real mismatch.
var totalTolerance = decimal.New(1, -2)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LineInput is one declared cart line submitted at checkout. The client's
// snapshot price is deliberately absent; only the catalog price counts.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput is the full checkout submission.
type PlaceOrderInput struct {
	UserID          *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	Phone           string
	ShippingAddress string
	DeclaredTotal   float64
	Lines           []LineInput
}

// Service validates and persists checkout submissions.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*order.OrderDTO, error)
}

type service struct {
	tx       txRunner
	products *product.Repository
	orders   *order.Repository
}

// NewService builds the checkout service.
func NewService(tx txRunner, products *product.Repository, orders *order.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order writer required")
	}
	return &service{tx: tx, products: products, orders: orders}, nil
}

// PlaceOrder re-validates the declared cart line by line against the live
// catalog, recomputes the total from catalog prices, and persists the order
// header plus one item snapshot per line. The whole write happens inside a
// single transaction so a failure on line N leaves nothing behind.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*order.OrderDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var placed *order.OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		orders := s.orders.WithTx(tx)

		serverTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Lines))

		for _, line := range input.Lines {
			product, err := products.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeProductNotFound,
						fmt.Sprintf("product %s not found", line.ProductID)).
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			if !product.InStock {
				return pkgerrors.New(pkgerrors.CodeOutOfStock,
					fmt.Sprintf("product %q is out of stock", product.Name)).
					WithDetails(map[string]any{"product_id": product.ID})
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			serverTotal = serverTotal.Add(lineTotal)

			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			})
		}

		declared := decimal.NewFromFloat(input.DeclaredTotal)
		if serverTotal.Sub(declared).Abs().GreaterThan(totalTolerance) {
			return pkgerrors.New(pkgerrors.CodeTotalMismatch,
				fmt.Sprintf("declared total %s does not match server total %s",
					declared.StringFixed(2), serverTotal.StringFixed(2))).
				WithDetails(map[string]any{
					"declared_total": declared.InexactFloat64(),
					"server_total":   serverTotal.InexactFloat64(),
				})
		}

		header := &models.Order{
			UserID:          input.UserID,
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
			Phone:           strings.TrimSpace(input.Phone),
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			TotalAmount:     serverTotal,
			Status:          enums.OrderStatusPending,
		}
		created, err := orders.CreateOrder(ctx, header)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range items {
			items[i].OrderID = created.ID
		}
		if err := orders.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		full, err := orders.FindByID(ctx, created.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		placed = order.ToOrderDTO(full)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// Name and email stay optional; only shipping contact details and the
// declared cart are mandatory at checkout.
func validateInput(input PlaceOrderInput) error {
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order contains no items")
	}
	for _, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required on every line")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity for product %s must be at least 1", line.ProductID))
		}
	}
	if input.DeclaredTotal <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "declared total must be positive")
	}
	return nil
}
