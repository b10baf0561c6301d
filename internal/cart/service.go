package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// QuoteLineInput is one declared cart line sent by the client for repricing.
type QuoteLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// QuoteLine is the repriced counterpart of a declared line.
type QuoteLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	LineTotal float64   `json:"line_total"`
	InStock   bool      `json:"in_stock"`
}

// Quote reprices a declared cart against the live catalog.
type Quote struct {
	Lines    []QuoteLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

// Service reprices client carts against the authoritative catalog so the
// storefront can refresh stale snapshots before checkout.
type Service interface {
	QuoteCart(ctx context.Context, lines []QuoteLineInput) (*Quote, error)
}

type service struct {
	products productLoader
}

// NewService builds a cart quoting service.
func NewService(products productLoader) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{products: products}, nil
}

func (s *service) QuoteCart(ctx context.Context, lines []QuoteLineInput) (*Quote, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := &Quote{Lines: make([]QuoteLine, 0, len(lines))}
	subtotal := decimal.Zero

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("quantity for product %s must be at least 1", line.ProductID))
		}

		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeProductNotFound,
					fmt.Sprintf("product %s not found", line.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price.InexactFloat64(),
			Quantity:  line.Quantity,
			LineTotal: lineTotal.InexactFloat64(),
			InStock:   product.InStock,
		})
	}

	quote.Subtotal = subtotal.InexactFloat64()
	return quote, nil
}
