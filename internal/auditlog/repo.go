package auditlog

import (
	"context"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is an audit record joined with the acting user's name and email.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"timestamp"`
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

// Repository persists audit_logs rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the audit log repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends an entry.
func (r *Repository) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries newest first. Entries whose user was deleted keep empty name/email.
func (r *Repository) List(ctx context.Context, params listParams) ([]Entry, error) {
	query := r.db.WithContext(ctx).
		Table("audit_logs AS l").
		Select("l.id, l.user_id, COALESCE(u.name, '') AS user_name, COALESCE(u.email, '') AS user_email, l.action, l.details, l.created_at").
		Joins("LEFT JOIN users u ON u.id = l.user_id")
	if params.Cursor != nil {
		query = query.Where("(l.created_at, l.id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var entries []Entry
	if err := query.Order("l.created_at DESC, l.id DESC").Limit(params.Limit).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteOlderThan removes entries created before cutoff and returns how many went.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}
