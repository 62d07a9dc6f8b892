package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Order lines copy ProductName and never link back.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductName string    `gorm:"column:product_name;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	NetStock    *int      `gorm:"column:net_stock"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
