package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	"github.com/furnishd/furnishd-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, userID *uuid.UUID, status enums.OrderStatus, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    "Ada Buyer",
		CustomerEmail:   "ada@example.com",
		Phone:           "555-0100",
		ShippingAddress: "1 Main St",
		TotalAmount:     decimal.RequireFromString(total),
		Status:          status,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func mustCreateTestOrderItem(t *testing.T, tx *gorm.DB, orderID uuid.UUID, name string, qty int, price string) *models.OrderItem {
	t.Helper()
	item := &models.OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   uuid.New(),
		ProductName: name,
		Quantity:    qty,
		Price:       decimal.RequireFromString(price),
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create order item: %v", err)
	}
	return item
}
