// Package dbtest opens throwaway sqlite databases shaped like the postgres schema.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/stockline-backend/pkg/db/models"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const schema = `
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'employee',
  location TEXT,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE parties (
  id TEXT PRIMARY KEY,
  firm_name TEXT NOT NULL UNIQUE,
  firm_address TEXT NOT NULL,
  firm_city_state TEXT NOT NULL,
  contact_person TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  product_name TEXT NOT NULL UNIQUE,
  description TEXT,
  net_stock INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  party_id TEXT,
  party_firm_name TEXT NOT NULL,
  party_firm_address TEXT NOT NULL,
  party_firm_city_state TEXT NOT NULL,
  party_contact_person TEXT NOT NULL,
  party_phone_number TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  product_name TEXT NOT NULL,
  quantity TEXT NOT NULL,
  rate TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'ordered',
  location TEXT NOT NULL DEFAULT 'Godown',
  assigned_to TEXT
);
CREATE TABLE audit_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  action TEXT NOT NULL,
  details TEXT,
  created_at DATETIME
);
CREATE TABLE statistics_snapshots (
  id TEXT PRIMARY KEY,
  date DATETIME NOT NULL UNIQUE,
  most_ordered_product_name TEXT,
  most_ordered_product_count INTEGER,
  least_ordered_product_name TEXT,
  least_ordered_product_count INTEGER,
  party_most_orders_name TEXT,
  party_most_orders_count INTEGER,
  party_least_orders_name TEXT,
  party_least_orders_count INTEGER,
  number_of_orders INTEGER NOT NULL,
  number_of_products INTEGER NOT NULL,
  number_of_parties INTEGER NOT NULL,
  product_order_counts TEXT,
  average_order_value TEXT NOT NULL,
  total_revenue TEXT NOT NULL,
  updated_at DATETIME
);`

// Open returns a fresh in-memory database with every table created. Each call gets
// its own database so tests do not observe each other's rows.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// MustCreateUser inserts a user with the given role. loc is only stored for employees.
func MustCreateUser(t *testing.T, db *gorm.DB, role enums.Role, loc *enums.Location) *models.User {
	t.Helper()
	suffix := uuid.NewString()
	user := &models.User{
		ID:           uuid.New(),
		Name:         fmt.Sprintf("user-%s", suffix[:8]),
		Email:        fmt.Sprintf("sl_test_%s@example.com", suffix),
		Phone:        suffix,
		PasswordHash: "hash",
		Role:         role,
	}
	if role.RequiresLocation() {
		user.Location = loc
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// MustCreateParty inserts a party with placeholder contact details.
func MustCreateParty(t *testing.T, db *gorm.DB, firmName string) *models.Party {
	t.Helper()
	party := &models.Party{
		ID:            uuid.New(),
		FirmName:      firmName,
		FirmAddress:   "12 Market Road",
		FirmCityState: "Surat, Gujarat",
		ContactPerson: "Ravi",
		PhoneNumber:   "9800000000",
	}
	if err := db.Create(party).Error; err != nil {
		t.Fatalf("create party: %v", err)
	}
	return party
}
