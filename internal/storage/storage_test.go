package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()

	store, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"), newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStoreRoundTrip(t *testing.T) {
	store := newTestBoltStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	store.Save("key", payload{Name: "inception", Count: 3})

	var got payload
	require.True(t, store.Load("key", &got))
	require.Equal(t, payload{Name: "inception", Count: 3}, got)
}

func TestBoltStoreMissingKeyLeavesDefault(t *testing.T) {
	store := newTestBoltStore(t)

	got := []string{"default"}
	require.False(t, store.Load("absent", &got))
	require.Equal(t, []string{"default"}, got)
}

func TestBoltStoreCorruptValueTreatedAsAbsent(t *testing.T) {
	store := newTestBoltStore(t)

	// A valid value first, then clobber it with bytes that are not JSON.
	store.Save("key", []int{1, 2, 3})
	store.Save("key", "{{not json")

	var got []int
	// "{{not json" was stored as a JSON string, so decoding into []int fails.
	require.False(t, store.Load("key", &got))
	require.Nil(t, got)
}

func TestBoltStoreRemove(t *testing.T) {
	store := newTestBoltStore(t)

	store.Save("key", 42)
	store.Remove("key")

	var got int
	require.False(t, store.Load("key", &got))

	// Removing an absent key is harmless.
	store.Remove("key")
}

func TestBoltStoreSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBoltStore(filepath.Join(dir, "test.db"), newTestLogger())
	require.NoError(t, err)
	store.Save("key", "value")

	snapshotPath := filepath.Join(dir, "test.db.bak")
	require.NoError(t, store.Snapshot(snapshotPath))
	require.NoError(t, store.Close())

	info, err := os.Stat(snapshotPath)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	// The snapshot is itself a usable database.
	restored, err := NewBoltStore(snapshotPath, newTestLogger())
	require.NoError(t, err)
	defer restored.Close()

	var got string
	require.True(t, restored.Load("key", &got))
	require.Equal(t, "value", got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()

	store.Save("key", map[string]int{"a": 1})

	var got map[string]int
	require.True(t, store.Load("key", &got))
	require.Equal(t, map[string]int{"a": 1}, got)

	store.Seed("bad", []byte("{{not json"))
	var other map[string]int
	require.False(t, store.Load("bad", &other))

	store.Remove("key")
	require.False(t, store.Load("key", &got))
}
