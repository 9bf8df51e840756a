// Package dbtest opens throwaway sqlite databases carrying the users and trips
// schema for repository and service tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/fueltrips-backend/pkg/db"
)

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`

const tripsTable = `
CREATE TABLE IF NOT EXISTS trips (
  id TEXT PRIMARY KEY,
  truck TEXT NOT NULL,
  driver TEXT NOT NULL,
  origin TEXT NOT NULL,
  destination TEXT NOT NULL,
  fuel_type TEXT NOT NULL,
  volume_liters INTEGER NOT NULL,
  departure_at DATETIME NOT NULL,
  status TEXT NOT NULL,
  delivered_at DATETIME,
  notes TEXT,
  created_by TEXT NOT NULL REFERENCES users (id),
  created_at DATETIME,
  updated_at DATETIME
);`

// Open returns a fresh in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range []string{usersTable, tripsTable} {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Keep one connection so the shared in-memory database lives for the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// OpenClient wraps Open in a db.Client.
func OpenClient(t testing.TB) *db.Client {
	t.Helper()
	return db.Wrap(Open(t))
}
