package repo

import (
	"context"
	"testing"

	"github.com/angelmondragon/stockline-backend/pkg/db/dbtest"
	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey struct{}

func TestNewBaseStoresConnection(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestBaseBind(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	if base.Bind(nil).db != db {
		t.Fatalf("expected nil tx to keep the connection")
	}
	tx := db.Session(&gorm.Session{})
	if base.Bind(tx).db != tx {
		t.Fatalf("expected bound tx")
	}
}

func TestRequireAffected(t *testing.T) {
	db := dbtest.Open(t)
	party := dbtest.MustCreateParty(t, db, "Acme Traders")

	res := db.Model(&models.Party{}).Where("id = ?", uuid.New()).Update("phone_number", "1")
	if err := RequireAffected(res); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}

	res = db.Model(&models.Party{}).Where("id = ?", party.ID).Update("phone_number", "1")
	if err := RequireAffected(res); err != nil {
		t.Fatalf("expected update to match, got %v", err)
	}
}
