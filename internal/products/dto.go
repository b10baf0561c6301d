package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients. Money fields
// are serialized as plain JSON numbers, which is what the storefront expects.
type ProductDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Category      string    `json:"category"`
	ImageURL      *string   `json:"image_url,omitempty"`
	InStock       bool      `json:"in_stock"`
	IsFeatured    bool      `json:"is_featured"`
	IsNew         bool      `json:"is_new"`
	IsBestseller  bool      `json:"is_bestseller"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:           product.ID,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price.InexactFloat64(),
		ImageURL:     product.ImageURL,
		InStock:      product.InStock,
		IsFeatured:   product.IsFeatured,
		IsNew:        product.IsNew,
		IsBestseller: product.IsBestseller,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
	if product.DiscountPrice != nil {
		v := product.DiscountPrice.InexactFloat64()
		dto.DiscountPrice = &v
	}
	if product.Category != nil {
		dto.Category = product.Category.Name
	}
	return dto
}

// NewProductDTOs maps a model slice into response payloads.
func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = *NewProductDTO(&products[i])
	}
	return dtos
}
