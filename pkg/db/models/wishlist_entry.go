package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
)

// WishlistEntry links a user to a saved catalog item. Entries carry no
// quantity; the unique index gives the wishlist set semantics.
type WishlistEntry struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index:wishlist_entries_user_id_idx;uniqueIndex:wishlist_entries_user_item_key"`
	ItemKind  enums.ItemKind `gorm:"column:item_kind;type:text;not null;uniqueIndex:wishlist_entries_user_item_key"`
	ItemID    uuid.UUID      `gorm:"column:item_id;type:uuid;not null;uniqueIndex:wishlist_entries_user_item_key"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}
