package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/furnishd/furnishd-backend/pkg/pagination"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	category := mustCreateTestCategory(t, conn, "Chairs")
	created := mustCreateTestProduct(t, conn, category.ID, "Oak Chair", "50.00")

	fetched, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if fetched.Category == nil || fetched.Category.Name != "Chairs" {
		t.Fatalf("expected category preloaded, got %+v", fetched.Category)
	}
	if !fetched.Price.Equal(decimal.RequireFromString("50.00")) {
		t.Fatalf("expected price 50.00, got %s", fetched.Price)
	}

	fetched.Name = "Walnut Chair"
	if _, err := repo.UpdateProduct(ctx, fetched); err != nil {
		t.Fatalf("update product: %v", err)
	}

	again, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if again.Name != "Walnut Chair" {
		t.Fatalf("expected updated name, got %s", again.Name)
	}

	if err := repo.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)

	if _, err := repo.FindByID(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown product")
	}
}

func TestRepositoryListProductsFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	chairs := mustCreateTestCategory(t, conn, "Chairs")
	tables := mustCreateTestCategory(t, conn, "Tables")

	chair := mustCreateTestProduct(t, conn, chairs.ID, "Oak Chair", "50.00")
	chair.IsFeatured = true
	if err := conn.Save(chair).Error; err != nil {
		t.Fatalf("flag chair featured: %v", err)
	}
	table := mustCreateTestProduct(t, conn, tables.ID, "Dining Table", "300.00")
	table.InStock = false
	if err := conn.Save(table).Error; err != nil {
		t.Fatalf("flag table out of stock: %v", err)
	}

	name := "Chairs"
	rows, total, err := repo.ListProducts(ctx, ProductListFilters{CategoryName: &name}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Name != "Oak Chair" {
		t.Fatalf("expected only the chair, got total=%d rows=%d", total, len(rows))
	}

	featured := true
	rows, total, err = repo.ListProducts(ctx, ProductListFilters{Featured: &featured}, pagination.Params{})
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if total != 1 || rows[0].ID != chair.ID {
		t.Fatalf("expected the featured chair, got total=%d", total)
	}

	inStock := true
	rows, total, err = repo.ListProducts(ctx, ProductListFilters{InStock: &inStock}, pagination.Params{})
	if err != nil {
		t.Fatalf("list in stock: %v", err)
	}
	if total != 1 || rows[0].ID != chair.ID {
		t.Fatalf("expected only in-stock products, got total=%d", total)
	}

	rows, total, err = repo.ListProducts(ctx, ProductListFilters{Query: "dining"}, pagination.Params{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || rows[0].ID != table.ID {
		t.Fatalf("expected search to match the table, got total=%d", total)
	}

	rows, total, err = repo.ListProducts(ctx, ProductListFilters{}, pagination.Params{Limit: 1})
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if total != 2 || len(rows) != 1 {
		t.Fatalf("expected total=2 with one page row, got total=%d rows=%d", total, len(rows))
	}
}
