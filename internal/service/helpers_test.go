package service

import (
	"path/filepath"
	"testing"
	"time"

	"outlethub-api/internal/repository"

	"github.com/stretchr/testify/require"
)

// newTestStore opens a throwaway SQLite store under t.TempDir().
func newTestStore(t *testing.T) repository.Store {
	t.Helper()

	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestTokens() *TokenService {
	return NewTokenService("test-secret", 720*time.Hour)
}
