// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/siahsang/forum/internal/database"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database closed at test cleanup.
func Open(t testing.TB) *database.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Open(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		DSN:    dsn,
	}, DiscardLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test database: %v", err)
		}
	})
	return db
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
