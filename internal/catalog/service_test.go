package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mobimart/mobimart-backend/pkg/errors"
)

func TestServiceGetProductMapsErrors(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.GetProduct(ctx, uuid.Nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.GetProduct(ctx, uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	seeded := seedProduct(t, db, "phone", "phones", false, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	dto, err := svc.GetProduct(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "phone", dto.Name)
}

func TestServiceGetAccessoryMapsNotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)

	_, err = svc.GetAccessory(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
