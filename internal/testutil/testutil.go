// Package testutil provides shared test helpers for setting up stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/recallify/internal/store"
)

// TestStore opens a store on a temporary database file that is closed and
// removed when the test ends.
func TestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "recallify-test.db"), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
