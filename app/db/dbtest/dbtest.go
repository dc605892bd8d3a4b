// Package dbtest provides a migrated in-memory sqlite database for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/Rakhulsr/mini-pos/app/configs"
	"github.com/Rakhulsr/mini-pos/app/models/migrations"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := configs.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("dbtest: open: %v", err)
	}
	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("dbtest: migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
