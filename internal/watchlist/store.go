package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"EtfRadar/internal/model"
)

// Namespace keys the snapshot inside the store. Bumping the trailing
// version abandons old snapshots instead of migrating them.
const Namespace = "etf-rsi-dashboard/watch-items/v1"

// Store persists the watchlist snapshot.
type Store interface {
	Load() ([]model.WatchItem, error)
	Save(items []model.WatchItem) error
}

// FileStore keeps the snapshot in an indented JSON file keyed by Namespace.
type FileStore struct {
	Path string
}

// NewFileStore creates a store at the given path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

type snapshotFile map[string][]model.WatchItem

// Load reads the snapshot. A missing file yields a nil list, not an error.
func (s *FileStore) Load() ([]model.WatchItem, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read watchlist snapshot: %w", err)
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse watchlist snapshot: %w", err)
	}
	return snap[Namespace], nil
}

// Save writes the snapshot, creating parent directories as needed.
func (s *FileStore) Save(items []model.WatchItem) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(snapshotFile{Namespace: items}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}
