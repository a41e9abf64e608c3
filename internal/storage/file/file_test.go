package file_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mechanico/internal/storage"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/file"
)

func TestStore_RoundTrip(t *testing.T) {
	s, err := file.Open(t.TempDir())
	require.NoError(t, err)

	_, ok, err := s.Get("mechanico_users")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("mechanico_users", `[{"id":"1"}]`))

	v, ok, err := s.Get("mechanico_users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.Remove("mechanico_users"))
	require.NoError(t, s.Remove("mechanico_users"))

	_, ok, err = s.Get("mechanico_users")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_KeysAreEscaped(t *testing.T) {
	dir := t.TempDir()
	s, err := file.Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set("../escape", "x"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v, ok, err := s.Get("../escape")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.kv"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Quota(t *testing.T) {
	s, err := file.Open(t.TempDir(), file.WithQuota(12))
	require.NoError(t, err)

	require.NoError(t, s.Set("a", "12345"))
	require.ErrorIs(t, s.Set("b", "1234567"), storage.ErrQuotaExceeded)

	// Rewriting an existing key does not count its old value.
	require.NoError(t, s.Set("a", "12345678901"))
}

func TestStore_SubscribeAcrossHandles(t *testing.T) {
	dir := t.TempDir()

	tabA, err := file.Open(dir)
	require.NoError(t, err)

	tabB, err := file.Open(dir)
	require.NoError(t, err)

	eventsA, cancelA := tabA.Subscribe()
	defer cancelA()

	eventsB, cancelB := tabB.Subscribe()
	defer cancelB()

	require.NoError(t, tabA.Set("mechanico_inventory", "[]"))

	select {
	case ev := <-eventsB:
		assert.Equal(t, "mechanico_inventory", ev.Key)
	case <-time.After(3 * time.Second):
		t.Fatal("tab B did not observe tab A's write")
	}

	select {
	case ev := <-eventsA:
		t.Fatalf("tab A observed its own write: %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStore_CancelClosesChannel(t *testing.T) {
	s, err := file.Open(t.TempDir())
	require.NoError(t, err)

	events, cancel := s.Subscribe()
	cancel()
	cancel()

	for range events {
	}
}
