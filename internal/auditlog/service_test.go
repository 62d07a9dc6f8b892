package auditlog

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
	"github.com/angelmondragon/stockline-backend/pkg/logger"
	"github.com/angelmondragon/stockline-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEntry(t *testing.T, conn *gorm.DB, userID uuid.UUID, action enums.AuditAction, at time.Time) *models.AuditLog {
	t.Helper()
	entry := &models.AuditLog{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action.String(),
		Details:   "seeded",
		CreatedAt: at,
	}
	require.NoError(t, conn.Create(entry).Error)
	return entry
}

func TestRecordPersistsEntry(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	user := dbtest.MustCreateUser(t, conn, enums.RoleOwner, nil)

	svc.Record(context.Background(), user.ID, enums.AuditActionCreateParty, "Party created: Acme")

	var rows []models.AuditLog
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "Create Party", rows[0].Action)
	assert.Equal(t, "Party created: Acme", rows[0].Details)
	assert.False(t, rows[0].CreatedAt.IsZero())
}

type failingRepo struct {
	repository
}

func (failingRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return errors.New("connection reset")
}

func TestRecordSwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: &buf})
	svc, err := NewService(failingRepo{}, logg)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), uuid.New(), enums.AuditActionLogin, "User logged in")
	})
	assert.Contains(t, buf.String(), "audit log write failed")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestListJoinsUsersAndPaginates(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	owner := dbtest.MustCreateUser(t, conn, enums.RoleOwner, nil)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	oldest := seedEntry(t, conn, owner.ID, enums.AuditActionLogin, base)
	middle := seedEntry(t, conn, owner.ID, enums.AuditActionCreateOrder, base.Add(time.Minute))
	newest := seedEntry(t, conn, uuid.New(), enums.AuditActionDeleteOrder, base.Add(2*time.Minute))

	req := auth.Requester{UserID: owner.ID, Role: enums.RoleOwner}
	first, err := svc.List(context.Background(), pagination.Params{Limit: 2}, req)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, newest.ID, first.Items[0].ID)
	assert.Equal(t, "", first.Items[0].UserName)
	assert.Equal(t, middle.ID, first.Items[1].ID)
	assert.Equal(t, owner.Name, first.Items[1].UserName)
	assert.Equal(t, owner.Email, first.Items[1].UserEmail)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(context.Background(), pagination.Params{Limit: 2, Cursor: first.NextCursor}, req)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, oldest.ID, second.Items[0].ID)
	assert.Empty(t, second.NextCursor)
}

func TestListRejectsNonOwnersAndBadCursor(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)

	loc := enums.LocationUniversal
	_, err = svc.List(context.Background(), pagination.Params{}, auth.Requester{UserID: uuid.New(), Role: enums.RoleEmployee, Location: &loc})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	_, err = svc.List(context.Background(), pagination.Params{Cursor: "%%%"}, auth.Requester{UserID: uuid.New(), Role: enums.RoleOwner})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestPurgeRemovesExpiredEntries(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), nil)
	require.NoError(t, err)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	userID := uuid.New()

	seedEntry(t, conn, userID, enums.AuditActionLogin, now.Add(-5*24*time.Hour))
	kept := seedEntry(t, conn, userID, enums.AuditActionLogin, now.Add(-3*24*time.Hour))

	removed, err := svc.Purge(context.Background(), 96*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	var rows []models.AuditLog
	require.NoError(t, conn.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, kept.ID, rows[0].ID)

	_, err = svc.Purge(context.Background(), 0)
	assert.Error(t, err)
}
