package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ChampneyBull/dubai-app/internal/model"
)

// snapshotFileName is the fixed key for the persisted player snapshot
const snapshotFileName = "dubai_player.json"

// SnapshotStore persists one player snapshot for silent PIN-session
// resumption across restarts.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or false when none is usable.
	// Corrupt snapshots are discarded silently.
	Load() (*model.Player, bool)
	Save(player *model.Player) error
	Clear() error
}

// FileSnapshot stores the snapshot as a JSON file under a directory.
type FileSnapshot struct {
	path string
}

// NewFileSnapshot creates a snapshot store rooted at dir
func NewFileSnapshot(dir string) *FileSnapshot {
	return &FileSnapshot{path: filepath.Join(dir, snapshotFileName)}
}

var _ SnapshotStore = (*FileSnapshot)(nil)

func (f *FileSnapshot) Load() (*model.Player, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, false
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		// Corrupt persisted state: discard and start logged out
		_ = os.Remove(f.path)
		return nil, false
	}
	return &player, true
}

func (f *FileSnapshot) Save(player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

func (f *FileSnapshot) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySnapshot is an in-memory snapshot store for tests and for servers
// that should not persist sessions.
type MemorySnapshot struct {
	player *model.Player
}

// NewMemorySnapshot creates an empty in-memory snapshot store
func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

var _ SnapshotStore = (*MemorySnapshot)(nil)

func (m *MemorySnapshot) Load() (*model.Player, bool) {
	if m.player == nil {
		return nil, false
	}
	copied := *m.player
	return &copied, true
}

func (m *MemorySnapshot) Save(player *model.Player) error {
	copied := *player
	m.player = &copied
	return nil
}

func (m *MemorySnapshot) Clear() error {
	m.player = nil
	return nil
}
