package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/blink-dev/blink/db"
	"github.com/blink-dev/blink/internal/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testSecret     = "0123456789abcdef0123456789abcdef"
	testAccessTTL  = 5 * time.Minute
	testRefreshTTL = 30 * 24 * time.Hour
)

// newTestDB opens a private in-memory sqlite database. Capping the pool at
// one connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.MigrateDatabase(database))

	return database
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T, database *gorm.DB) (*AuthService, *auth.Codec) {
	t.Helper()

	codec, err := auth.NewCodec(testSecret)
	require.NoError(t, err)

	sessions := NewSessionStore(database)

	return NewAuthService(testLogger(), database, sessions, codec, testAccessTTL, testRefreshTTL), codec
}
