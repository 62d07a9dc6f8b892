package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stockline-backend/pkg/enums"
)

// User represents an account that can sign in.
type User struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone        string          `gorm:"column:phone;type:text;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.Role      `gorm:"column:role;type:text;not null;default:'employee'"`
	Location     *enums.Location `gorm:"column:location;type:text"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
