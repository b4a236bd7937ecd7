package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
)

// CartItem is one authoritative cart line owned by a user. The unique index
// over (user_id, item_kind, item_id) enforces at most one line per item
// reference; repeat adds bump the quantity instead of inserting.
type CartItem struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx;uniqueIndex:cart_items_user_item_key"`
	ItemKind  enums.ItemKind `gorm:"column:item_kind;type:text;not null;uniqueIndex:cart_items_user_item_key"`
	ItemID    uuid.UUID      `gorm:"column:item_id;type:uuid;not null;uniqueIndex:cart_items_user_item_key"`
	Quantity  int            `gorm:"column:quantity;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
