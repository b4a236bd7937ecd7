package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// Repository is the Postgres-backed line store for authenticated carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

var _ Store = (*Repository)(nil)

// List returns all lines for the user ordered by insertion time.
func (r *Repository) List(ctx context.Context, owner string) ([]Line, error) {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return nil, gorm.ErrInvalidValue
	}

	var records []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&records).
		Error; err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(records))
	for _, record := range records {
		lines = append(lines, Line{
			Ref:      types.ItemRef{Kind: record.ItemKind, ID: record.ItemID},
			Quantity: record.Quantity,
		})
	}
	return lines, nil
}

// Add upserts the line, bumping the quantity when it already exists.
func (r *Repository) Add(ctx context.Context, owner string, ref types.ItemRef, quantity int) (int, error) {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return 0, gorm.ErrInvalidValue
	}
	if quantity <= 0 {
		return 0, gorm.ErrInvalidValue
	}

	item := models.CartItem{
		ID:       uuid.New(),
		UserID:   userID,
		ItemKind: ref.Kind,
		ItemID:   ref.ID,
		Quantity: quantity,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "item_kind"}, {Name: "item_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&item).
		Error; err != nil {
		return 0, err
	}

	var current int
	if err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("quantity").
		Where("user_id = ? AND item_kind = ? AND item_id = ?", userID, ref.Kind, ref.ID).
		Scan(&current).
		Error; err != nil {
		return 0, err
	}
	return current, nil
}

// Remove deletes the line and reports whether a row was hit.
func (r *Repository) Remove(ctx context.Context, owner string, ref types.ItemRef) (bool, error) {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return false, gorm.ErrInvalidValue
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND item_kind = ? AND item_id = ?", userID, ref.Kind, ref.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Replace swaps the entire cart inside one transaction.
func (r *Repository) Replace(ctx context.Context, owner string, lines []Line) error {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		records := make([]models.CartItem, 0, len(lines))
		for _, line := range lines {
			records = append(records, models.CartItem{
				ID:       uuid.New(),
				UserID:   userID,
				ItemKind: line.Ref.Kind,
				ItemID:   line.Ref.ID,
				Quantity: line.Quantity,
			})
		}
		return tx.Create(&records).Error
	})
}

// Clear removes every line for the user.
func (r *Repository) Clear(ctx context.Context, owner string) error {
	userID, err := uuid.Parse(owner)
	if err != nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}
