package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/mobimart/mobimart-backend/pkg/db/models"
	"github.com/mobimart/mobimart-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Name          string         `json:"name"`
	Role          enums.UserRole `json:"role"`
	Phone         *string        `json:"phone,omitempty"`
	Address       *string        `json:"address,omitempty"`
	City          *string        `json:"city,omitempty"`
	State         *string        `json:"state,omitempty"`
	Pincode       *string        `json:"pincode,omitempty"`
	AvatarURL     *string        `json:"avatar_url,omitempty"`
	Notifications bool           `json:"notifications"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.UserRole
	Phone        *string
}

// UpdateProfileDTO carries the mutable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileDTO struct {
	Name          *string
	Phone         *string
	Address       *string
	City          *string
	State         *string
	Pincode       *string
	AvatarURL     *string
	Notifications *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Phone:         u.Phone,
		Address:       u.Address,
		City:          u.City,
		State:         u.State,
		Pincode:       u.Pincode,
		AvatarURL:     u.AvatarURL,
		Notifications: u.Notifications,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		HasPassword:  c.PasswordHash != "",
		Name:         c.Name,
		Role:         role,
		Phone:        c.Phone,
	}
}
