// Package storetest provides throwaway stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feral-file/ff-social-escrow/internal/store"
)

// NewSQLite returns a migrated store backed by a private in-memory sqlite database.
// A single connection keeps concurrent transactions serialized.
func NewSQLite(t testing.TB) (store.Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := store.Open(store.DriverSQLite, dsn, false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, store.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return store.NewStore(db), db
}
