package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/enums"
)

// User represents the canonical account entity. The cart and wishlist rows
// it owns live in their own tables and cascade on delete.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	HasPassword   bool           `gorm:"column:has_password;not null;default:false"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	Name          string         `gorm:"column:name;not null;default:''"`
	Phone         *string        `gorm:"column:phone"`
	Address       *string        `gorm:"column:address"`
	City          *string        `gorm:"column:city"`
	State         *string        `gorm:"column:state"`
	Pincode       *string        `gorm:"column:pincode"`
	AvatarURL     *string        `gorm:"column:avatar_url"`
	Notifications bool           `gorm:"column:notifications;not null;default:false"`
	LastLoginAt   *time.Time     `gorm:"column:last_login_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
