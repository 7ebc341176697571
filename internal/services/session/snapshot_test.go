package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

func TestFileSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := NewFileSnapshot(dir)

	player := &model.Player{
		ID:       1,
		Name:     "Phil",
		Earnings: decimal.NewFromInt(65),
		PINHash:  "hash",
	}
	require.NoError(t, snap.Save(player))

	loaded, ok := snap.Load()
	require.True(t, ok)
	assert.Equal(t, player.ID, loaded.ID)
	assert.Equal(t, player.Name, loaded.Name)
	assert.True(t, player.Earnings.Equal(loaded.Earnings))
}

func TestFileSnapshotLoadMissing(t *testing.T) {
	snap := NewFileSnapshot(t.TempDir())

	_, ok := snap.Load()
	assert.False(t, ok)
}

func TestFileSnapshotCorruptDiscarded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, snapshotFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	snap := NewFileSnapshot(dir)

	_, ok := snap.Load()
	assert.False(t, ok)

	// The corrupt file is gone so the next start is clean
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileSnapshotClear(t *testing.T) {
	dir := t.TempDir()
	snap := NewFileSnapshot(dir)

	require.NoError(t, snap.Save(&model.Player{ID: 1, Name: "Phil"}))
	require.NoError(t, snap.Clear())

	_, ok := snap.Load()
	assert.False(t, ok)

	// Clearing twice is fine
	require.NoError(t, snap.Clear())
}

func TestMemorySnapshot(t *testing.T) {
	snap := NewMemorySnapshot()

	_, ok := snap.Load()
	assert.False(t, ok)

	require.NoError(t, snap.Save(&model.Player{ID: 1, Name: "Phil"}))

	loaded, ok := snap.Load()
	require.True(t, ok)
	assert.Equal(t, "Phil", loaded.Name)

	// Mutating the loaded copy must not touch the stored snapshot
	loaded.Name = "mutated"
	again, ok := snap.Load()
	require.True(t, ok)
	assert.Equal(t, "Phil", again.Name)

	require.NoError(t, snap.Clear())
	_, ok = snap.Load()
	assert.False(t, ok)
}
