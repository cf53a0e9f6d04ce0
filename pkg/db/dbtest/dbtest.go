// Package dbtest provides an in-memory SQLite database carrying the
// production schema for use in tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hearth/pkg/db"
	"hearth/pkg/db/migrations"
)

// New opens a private in-memory database with foreign keys enforced and the
// schema applied. The database is closed when the test finishes.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := migrations.Apply(context.Background(), database); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close(database)
	})
	return database
}
