package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing. DiscountPrice is display-only; order
// validation always charges Price.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	Description   *string          `gorm:"column:description"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(10,2)"`
	CategoryID    uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Category      *Category        `gorm:"foreignKey:CategoryID"`
	ImageURL      *string          `gorm:"column:image_url"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true"`
	IsFeatured    bool             `gorm:"column:is_featured;not null;default:false"`
	IsNew         bool             `gorm:"column:is_new;not null;default:false"`
	IsBestseller  bool             `gorm:"column:is_bestseller;not null;default:false"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
