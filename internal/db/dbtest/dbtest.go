// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/castboard/castboard/internal/db/models"
)

// Open creates an in-memory SQLite database with all models migrated.
// The pool is pinned to one connection, every new connection would see an empty database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// BeforeUpdate runs fn once, right before the next UPDATE statement on table.
// fn gets a handle on the connection of that statement, so its writes land
// between the read and the write of the code under test.
func BeforeUpdate(t *testing.T, db *gorm.DB, table string, fn func(tx *gorm.DB)) {
	t.Helper()

	var fired atomic.Bool

	err := db.Callback().Update().Before("gorm:update").Register("dbtest:before_update", func(d *gorm.DB) {
		if d.Statement.Table != table || !fired.CompareAndSwap(false, true) {
			return
		}

		fn(d.Session(&gorm.Session{NewDB: true}))
	})
	require.NoError(t, err)
}
