package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/enums"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  images TEXT,
  category TEXT NOT NULL,
  brand TEXT,
  color TEXT,
  ratings TEXT,
  in_stock BOOLEAN NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0,
  is_offer BOOLEAN NOT NULL DEFAULT 0,
  is_best_seller BOOLEAN NOT NULL DEFAULT 0,
  badge TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE accessories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  images TEXT,
  category TEXT NOT NULL,
  brand TEXT,
  color TEXT,
  rating REAL NOT NULL DEFAULT 0,
  in_stock BOOLEAN NOT NULL DEFAULT 1,
  stock INTEGER NOT NULL DEFAULT 0,
  is_offer BOOLEAN NOT NULL DEFAULT 0,
  is_best_seller BOOLEAN NOT NULL DEFAULT 0,
  badge TEXT,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, category string, offer bool, createdAt time.Time) models.Product {
	t.Helper()

	product := models.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.NewFromInt(499),
		Category:  category,
		InStock:   true,
		Stock:     10,
		IsOffer:   offer,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedAccessory(t *testing.T, db *gorm.DB, name, category string, createdAt time.Time) models.Accessory {
	t.Helper()

	accessory := models.Accessory{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.NewFromInt(29),
		Category:  category,
		InStock:   true,
		Stock:     50,
		Rating:    4.2,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(&accessory).Error)
	return accessory
}

func TestListProductsPaginatesWithCursor(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, "oldest", "phones", false, base)
	seedProduct(t, db, "middle", "phones", false, base.Add(time.Minute))
	seedProduct(t, db, "newest", "phones", false, base.Add(2*time.Minute))

	page, err := repo.ListProducts(ctx, ListFilter{}, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "newest", page.Products[0].Name)
	assert.Equal(t, "middle", page.Products[1].Name)
	assert.Equal(t, 3, page.Pagination.Total)
	require.NotEmpty(t, page.Pagination.Next)

	rest, err := repo.ListProducts(ctx, ListFilter{}, page.Pagination.Next, 2)
	require.NoError(t, err)
	require.Len(t, rest.Products, 1)
	assert.Equal(t, "oldest", rest.Products[0].Name)
	assert.Empty(t, rest.Pagination.Next)
	assert.Equal(t, page.Pagination.Next, rest.Pagination.Current)
}

func TestListProductsRejectsMalformedCursor(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListProducts(context.Background(), ListFilter{}, "not-base64!!", 10)
	require.Error(t, err)
}

func TestListProductsAppliesFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, "galaxy", "phones", false, base)
	offer := seedProduct(t, db, "pixel deal", "phones", true, base.Add(time.Minute))
	seedProduct(t, db, "tab", "tablets", false, base.Add(2*time.Minute))

	byCategory, err := repo.ListProducts(ctx, ListFilter{Category: "phones"}, "", 10)
	require.NoError(t, err)
	assert.Len(t, byCategory.Products, 2)
	assert.Equal(t, 2, byCategory.Pagination.Total)

	offersOnly, err := repo.ListProducts(ctx, ListFilter{OffersOnly: true}, "", 10)
	require.NoError(t, err)
	require.Len(t, offersOnly.Products, 1)
	assert.Equal(t, offer.ID, offersOnly.Products[0].ID)
}

func TestListAccessoriesIsSeparateCollection(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedProduct(t, db, "phone", "phones", false, base)
	seedAccessory(t, db, "case", "covers", base)

	page, err := repo.ListAccessories(ctx, ListFilter{}, "", 10)
	require.NoError(t, err)
	require.Len(t, page.Accessories, 1)
	assert.Equal(t, "case", page.Accessories[0].Name)
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestExistsChecksPerCollection(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	product := seedProduct(t, db, "phone", "phones", false, base)
	accessory := seedAccessory(t, db, "cable", "cables", base)

	ok, err := repo.ProductExists(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ProductExists(ctx, accessory.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.AccessoryExists(ctx, accessory.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AccessoryExists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindSummariesSpansBothCollections(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	product := seedProduct(t, db, "phone", "phones", false, base)
	accessory := seedAccessory(t, db, "charger", "chargers", base)

	productRef := types.ItemRef{Kind: enums.ItemKindProduct, ID: product.ID}
	accessoryRef := types.ItemRef{Kind: enums.ItemKindAccessory, ID: accessory.ID}
	goneRef := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}

	summaries, err := repo.FindSummaries(ctx, []types.ItemRef{productRef, accessoryRef, goneRef})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "phone", summaries[productRef].Name)
	assert.Equal(t, "charger", summaries[accessoryRef].Name)
	_, ok := summaries[goneRef]
	assert.False(t, ok)
}
