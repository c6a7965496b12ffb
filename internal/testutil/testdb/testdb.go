// Package testdb opens a migrated in-memory sqlite database for tests.
package testdb

import (
	"testing"

	mysqlrepo "procurement-approval/internal/adapter/repository/mysql"
	"procurement-approval/internal/infrastructure/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database with every table, master data included.
// A single connection keeps ":memory:" from splitting into several databases.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb, mysqlrepo.MasterDataModels()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return gdb
}

// Seed inserts rows, failing the test on error.
func Seed(t *testing.T, gdb *gorm.DB, rows ...any) {
	t.Helper()
	for _, r := range rows {
		if err := gdb.Create(r).Error; err != nil {
			t.Fatalf("seed %T: %v", r, err)
		}
	}
}
