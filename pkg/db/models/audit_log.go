package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a user action. Rows expire via the retention job.
type AuditLog struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Action    string    `gorm:"column:action;not null"`
	Details   string    `gorm:"column:details"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
