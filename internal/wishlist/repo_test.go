package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mobimart/mobimart-backend/pkg/enums"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	wishlistEntries := `
CREATE TABLE IF NOT EXISTS wishlist_entries (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  item_kind TEXT NOT NULL,
  item_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, item_kind, item_id)
);`
	require.NoError(t, db.Exec(wishlistEntries).Error)
	return db
}

func TestRepositoryAddEntryIgnoresDuplicates(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}

	require.NoError(t, repo.AddEntry(ctx, userID, ref))
	require.NoError(t, repo.AddEntry(ctx, userID, ref))

	entries, err := repo.ListEntries(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepositoryRemoveEntryReportsHit(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindAccessory, ID: uuid.New()}

	hit, err := repo.RemoveEntry(ctx, userID, ref)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, repo.AddEntry(ctx, userID, ref))

	hit, err = repo.RemoveEntry(ctx, userID, ref)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRepositorySameIDDifferentKindsCoexist(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	sharedID := uuid.New()

	require.NoError(t, repo.AddEntry(ctx, userID, types.ItemRef{Kind: enums.ItemKindProduct, ID: sharedID}))
	require.NoError(t, repo.AddEntry(ctx, userID, types.ItemRef{Kind: enums.ItemKindAccessory, ID: sharedID}))

	entries, err := repo.ListEntries(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRepositoryReplaceEntries(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	old := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}
	require.NoError(t, repo.AddEntry(ctx, userID, old))

	replacement := []types.ItemRef{
		{Kind: enums.ItemKindProduct, ID: uuid.New()},
		{Kind: enums.ItemKindAccessory, ID: uuid.New()},
	}
	require.NoError(t, repo.ReplaceEntries(ctx, userID, replacement))

	entries, err := repo.ListEntries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, old, e.Ref)
	}

	require.NoError(t, repo.ReplaceEntries(ctx, userID, nil))
	entries, err = repo.ListEntries(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRepositoryContains(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}

	found, err := repo.Contains(ctx, userID, ref)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.AddEntry(ctx, userID, ref))

	found, err = repo.Contains(ctx, userID, ref)
	require.NoError(t, err)
	assert.True(t, found)
}
