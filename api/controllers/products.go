package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/furnishd/furnishd-backend/api/responses"
	"github.com/furnishd/furnishd-backend/api/validators"
	product "github.com/furnishd/furnishd-backend/internal/products"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
	"github.com/furnishd/furnishd-backend/pkg/logger"
)

// ListProducts serves the public catalog browse endpoint.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := product.ProductListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.CategoryName = &category
		}
		if filters.Featured, err = validators.ParseQueryBool(r, "featured"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.New, err = validators.ParseQueryBool(r, "new"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.Bestseller, err = validators.ParseQueryBool(r, "bestseller"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.InStock, err = validators.ParseQueryBool(r, "in_stock"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), product.ListProductsInput{
			Filters:    filters,
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteList(w, result.Products, int(result.Total))
	}
}

// GetProduct serves a single public catalog entry.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

type createProductRequest struct {
	Name          string   `json:"name" validate:"required"`
	Description   *string  `json:"description,omitempty"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	Category      string   `json:"category" validate:"required"`
	ImageURL      *string  `json:"image_url,omitempty"`
	InStock       *bool    `json:"in_stock,omitempty"`
	IsFeatured    bool     `json:"is_featured,omitempty"`
	IsNew         bool     `json:"is_new,omitempty"`
	IsBestseller  bool     `json:"is_bestseller,omitempty"`
}

func (req createProductRequest) toInput() product.CreateProductInput {
	input := product.CreateProductInput{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Price:        decimal.NewFromFloat(req.Price),
		CategoryName: strings.TrimSpace(req.Category),
		ImageURL:     req.ImageURL,
		IsFeatured:   req.IsFeatured,
		IsNew:        req.IsNew,
		IsBestseller: req.IsBestseller,
		// New listings default to purchasable unless explicitly hidden.
		InStock: true,
	}
	if req.InStock != nil {
		input.InStock = *req.InStock
	}
	if req.DiscountPrice != nil {
		discount := decimal.NewFromFloat(*req.DiscountPrice)
		input.DiscountPrice = &discount
	}
	return input
}

// CreateProduct handles admin product creation.
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

type updateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	// Raw because the storefront clears a discount by sending "" or null
	// and sets one by sending a number.
	DiscountPrice json.RawMessage `json:"discount_price,omitempty"`
	Category      *string         `json:"category,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	InStock       *bool           `json:"in_stock,omitempty"`
	IsFeatured    *bool           `json:"is_featured,omitempty"`
	IsNew         *bool           `json:"is_new,omitempty"`
	IsBestseller  *bool           `json:"is_bestseller,omitempty"`
}

func (req updateProductRequest) toInput() (product.UpdateProductInput, error) {
	input := product.UpdateProductInput{
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		InStock:      req.InStock,
		IsFeatured:   req.IsFeatured,
		IsNew:        req.IsNew,
		IsBestseller: req.IsBestseller,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return product.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		input.Name = &name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return product.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be blank")
		}
		input.CategoryName = &category
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		input.Price = &price
	}
	if len(req.DiscountPrice) > 0 {
		switch raw := strings.TrimSpace(string(req.DiscountPrice)); raw {
		case `""`, "null":
			input.ClearDiscountPrice = true
		default:
			value, err := strconv.ParseFloat(raw, 64)
			if err != nil || value <= 0 {
				return product.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "discount_price must be a positive number")
			}
			discount := decimal.NewFromFloat(value)
			input.DiscountPrice = &discount
		}
	}
	return input, nil
}

// UpdateProduct handles admin product mutation.
func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct handles admin product removal.
func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
