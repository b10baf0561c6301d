package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/furnishd/furnishd-backend/pkg/db/models"
)

func seedCategory(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()
	row := &models.Category{ID: uuid.New(), Name: name}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func TestRepositoryFindByName(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seeded := seedCategory(t, conn, "Bedroom")

	found, err := repo.FindByName(ctx, "Bedroom")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByName(ctx, "Garage")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListCategoriesOrdered(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	seedCategory(t, conn, "Office")
	seedCategory(t, conn, "Bedroom")
	seedCategory(t, conn, "Living Room")

	rows, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bedroom", rows[0].Name)
	assert.Equal(t, "Living Room", rows[1].Name)
	assert.Equal(t, "Office", rows[2].Name)
}

func TestRepositoryCountProducts(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	used := seedCategory(t, conn, "Dining")
	empty := seedCategory(t, conn, "Outdoor")

	require.NoError(t, conn.Create(&models.Product{
		ID:         uuid.New(),
		Name:       "Walnut Table",
		Price:      decimal.RequireFromString("300.00"),
		CategoryID: used.ID,
		InStock:    true,
	}).Error)

	count, err := repo.CountProducts(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountProducts(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepositoryDeleteCategory(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	row := seedCategory(t, conn, "Hallway")

	require.NoError(t, repo.DeleteCategory(ctx, row.ID))

	_, err := repo.FindByID(ctx, row.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
