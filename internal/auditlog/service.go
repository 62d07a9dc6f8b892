package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/pagination"
	"github.com/google/uuid"
)

type repository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, params listParams) ([]Entry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Service records and reads the audit trail.
type Service struct {
	repo repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the audit log service. logg may be nil in tests.
func NewService(repo repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit log repository is required")
	}
	return &Service{
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// Record appends an entry. A failed write never fails the calling operation; it is
// logged at warn level and dropped.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, action enums.AuditAction, details string) {
	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action.String(),
		Details: details,
	}
	if err := s.repo.Create(ctx, entry); err != nil && s.logg != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"action":  action.String(),
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		s.logg.Warn(warnCtx, "audit log write failed")
	}
}

// List returns one page of entries, newest first. Owner only.
func (s *Service) List(ctx context.Context, params pagination.Params, req auth.Requester) (pagination.Page[Entry], error) {
	if !req.HasRole(enums.RoleOwner) {
		return pagination.Page[Entry]{}, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[Entry]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, listParams{
		Limit:  pagination.LimitWithBuffer(params.Limit),
		Cursor: cursor,
	})
	if err != nil {
		return pagination.Page[Entry]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit logs")
	}
	return pagination.BuildPage(rows, params.Limit, func(e Entry) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.ID}
	}), nil
}

// Purge deletes entries older than retention.
func (s *Service) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}
	removed, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge audit logs")
	}
	return removed, nil
}
