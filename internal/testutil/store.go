package testutil

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guarzo/gamematch/internal/store"
)

// NewStore creates an in-memory Store for testing.
// The store is automatically closed when the test completes.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("testutil.NewStore: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// NewLogger returns a debug-level JSON logger and the buffer it writes to.
// Writes are serialized so background goroutines may log; read the buffer
// only once they have stopped.
func NewLogger() (zerolog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return zerolog.New(zerolog.SyncWriter(&buf)).Level(zerolog.DebugLevel), &buf
}
