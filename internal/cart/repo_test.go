package cart

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

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  item_kind TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, item_kind, item_id)
);`
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func TestRepositoryAddUpsertsQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}

	current, err := repo.Add(ctx, userID.String(), ref, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, current)

	current, err = repo.Add(ctx, userID.String(), ref, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, current)

	lines, err := repo.List(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestRepositoryKindDisambiguatesSharedIDs(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	sharedID := uuid.New()

	_, err := repo.Add(ctx, userID.String(), types.ItemRef{Kind: enums.ItemKindProduct, ID: sharedID}, 1)
	require.NoError(t, err)
	_, err = repo.Add(ctx, userID.String(), types.ItemRef{Kind: enums.ItemKindAccessory, ID: sharedID}, 2)
	require.NoError(t, err)

	lines, err := repo.List(ctx, userID.String())
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestRepositoryRemoveReportsHit(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindAccessory, ID: uuid.New()}

	removed, err := repo.Remove(ctx, userID.String(), ref)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Add(ctx, userID.String(), ref, 2)
	require.NoError(t, err)

	removed, err = repo.Remove(ctx, userID.String(), ref)
	require.NoError(t, err)
	assert.True(t, removed)

	lines, err := repo.List(ctx, userID.String())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRepositoryReplaceSwapsCartAtomically(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	old := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}
	_, err := repo.Add(ctx, userID.String(), old, 3)
	require.NoError(t, err)

	replacement := []Line{
		{Ref: types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}, Quantity: 1},
		{Ref: types.ItemRef{Kind: enums.ItemKindAccessory, ID: uuid.New()}, Quantity: 2},
	}
	require.NoError(t, repo.Replace(ctx, userID.String(), replacement))

	lines, err := repo.List(ctx, userID.String())
	require.NoError(t, err)
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.NotEqual(t, old, line.Ref)
	}

	require.NoError(t, repo.Replace(ctx, userID.String(), nil))
	lines, err = repo.List(ctx, userID.String())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRepositoryScopesByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	ref := types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}

	_, err := repo.Add(ctx, alice.String(), ref, 1)
	require.NoError(t, err)
	_, err = repo.Add(ctx, bob.String(), ref, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Clear(ctx, alice.String()))

	aliceLines, err := repo.List(ctx, alice.String())
	require.NoError(t, err)
	assert.Empty(t, aliceLines)

	bobLines, err := repo.List(ctx, bob.String())
	require.NoError(t, err)
	require.Len(t, bobLines, 1)
	assert.Equal(t, 2, bobLines[0].Quantity)
}

func TestRepositoryRejectsBadOwnerKey(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.List(ctx, "not-a-uuid")
	assert.Error(t, err)

	_, err = repo.Add(ctx, "not-a-uuid", types.ItemRef{Kind: enums.ItemKindProduct, ID: uuid.New()}, 1)
	assert.Error(t, err)
}
