package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

// Service exposes catalog read and admin management operations.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// ListProductsInput captures the inputs needed to paginate/filter the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductListResult is a catalog page plus the unpaginated match count.
type ProductListResult struct {
	Products []ProductDTO
	Total    int64
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	CategoryName  string
	ImageURL      *string
	InStock       bool
	IsFeatured    bool
	IsNew         bool
	IsBestseller  bool
}

// UpdateProductInput holds optional mutation values. Nil means "leave alone";
// ClearDiscountPrice handles the empty-string-means-null convention on the
// discount field.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	Price              *decimal.Decimal
	DiscountPrice      *decimal.Decimal
	ClearDiscountPrice bool
	CategoryName       *string
	ImageURL           *string
	InStock            *bool
	IsFeatured         *bool
	IsNew              *bool
	IsBestseller       *bool
}

type categoryResolver interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
}

// service implements the product service.
type service struct {
	repo       *Repository
	categories categoryResolver
}

// NewService constructs a product service instance.
func NewService(repo *Repository, categories categoryResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{
		repo:       repo,
		categories: categories,
	}, nil
}

// GetProduct resolves a product identifier to its current catalog row.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns the filtered catalog page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	rows, total, err := s.repo.ListProducts(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ProductListResult{
		Products: NewProductDTOs(rows),
		Total:    total,
	}, nil
}

// CreateProduct validates and persists a new catalog listing.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePrices(input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, input.CategoryName)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		CategoryID:    category.ID,
		ImageURL:      input.ImageURL,
		InStock:       input.InStock,
		IsFeatured:    input.IsFeatured,
		IsNew:         input.IsNew,
		IsBestseller:  input.IsBestseller,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	created.Category = category
	return NewProductDTO(created), nil
}

// UpdateProduct applies a partial mutation to an existing listing.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.CategoryName != nil {
		category, err := s.resolveCategory(ctx, *input.CategoryName)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		product.Category = category
	}

	applyUpdateToProduct(product, input)

	if err := validatePrices(product.Price, product.DiscountPrice); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

// DeleteProduct removes a listing from the catalog.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) resolveCategory(ctx context.Context, name string) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	category, err := s.categories.FindByName(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("category %q does not exist", trimmed))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func validatePrices(price decimal.Decimal, discount *decimal.Decimal) error {
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if discount != nil {
		if !discount.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount_price must be positive")
		}
		if discount.GreaterThan(price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount_price cannot exceed price")
		}
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ClearDiscountPrice {
		product.DiscountPrice = nil
	} else if input.DiscountPrice != nil {
		product.DiscountPrice = input.DiscountPrice
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsBestseller != nil {
		product.IsBestseller = *input.IsBestseller
	}
}
