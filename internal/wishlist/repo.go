package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/types"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// AddEntry inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddEntry(ctx context.Context, userID uuid.UUID, ref types.ItemRef) error {
	if userID == uuid.Nil || ref.ID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	record := models.WishlistEntry{
		ID:       uuid.New(),
		UserID:   userID,
		ItemKind: ref.Kind,
		ItemID:   ref.ID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_kind"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&record).
		Error
}

// RemoveEntry deletes the entry if it exists and reports whether a row was hit.
func (r *Repository) RemoveEntry(ctx context.Context, userID uuid.UUID, ref types.ItemRef) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND item_kind = ? AND item_id = ?", userID, ref.Kind, ref.ID).
		Delete(&models.WishlistEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListEntries returns all saved items for the user, newest first.
func (r *Repository) ListEntries(ctx context.Context, userID uuid.UUID) ([]entry, error) {
	var records []models.WishlistEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&records).
		Error; err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entry{
			Ref:     types.ItemRef{Kind: record.ItemKind, ID: record.ItemID},
			SavedAt: record.CreatedAt,
		})
	}
	return entries, nil
}

// ReplaceEntries swaps the entire wishlist inside one transaction.
func (r *Repository) ReplaceEntries(ctx context.Context, userID uuid.UUID, refs []types.ItemRef) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.WishlistEntry{}).Error; err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}

		records := make([]models.WishlistEntry, 0, len(refs))
		for _, ref := range refs {
			records = append(records, models.WishlistEntry{
				ID:       uuid.New(),
				UserID:   userID,
				ItemKind: ref.Kind,
				ItemID:   ref.ID,
			})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error
	})
}

// Contains reports whether the user has saved the item.
func (r *Repository) Contains(ctx context.Context, userID uuid.UUID, ref types.ItemRef) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ? AND item_kind = ? AND item_id = ?", userID, ref.Kind, ref.ID).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
