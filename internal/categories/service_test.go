package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
	pkgerrors "github.com/furnishd/furnishd-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCreateAndListCategories(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "  Beds  "})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.Name != "Beds" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}

	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Desks"}); err != nil {
		t.Fatalf("create second category: %v", err)
	}

	rows, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Beds" || rows[1].Name != "Desks" {
		t.Fatalf("expected name-ordered categories, got %+v", rows)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Lamps"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	_, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Lamps"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Rugs"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	name := "Carpets"
	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: &name})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Carpets" {
		t.Fatalf("expected renamed category, got %q", updated.Name)
	}

	_, err = svc.UpdateCategory(ctx, uuid.New(), UpdateCategoryInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "Shelves"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Wall Shelf",
		Price:      decimal.RequireFromString("45.00"),
		CategoryID: created.ID,
		InStock:    true,
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = svc.DeleteCategory(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while referenced, got %v", err)
	}

	if err := conn.Delete(product).Error; err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete after products removed: %v", err)
	}

	err = svc.DeleteCategory(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
