// Package persist stores world snapshots on disk and replays them at
// startup. Saving is best-effort: a failed write is logged and the game
// keeps running on in-memory state.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/hollowroot/jungeon/internal/game"
)

// Repository reads and writes the snapshot file. It performs no locking of
// its own; callers hand it fully-built snapshots.
type Repository struct {
	path string
}

func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Restore overlays a previously saved snapshot onto freshly loaded state.
// Best-effort: a missing or unreadable file is treated as a clean first
// boot, never a startup failure. Ids the current world no longer knows are
// dropped; a saved character in a vanished room falls back to an arbitrary
// existing room.
func (r *Repository) Restore(state *game.WorldState) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("ignoring unreadable snapshot", "path", r.path, "error", err)
		}
		return
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("ignoring corrupt snapshot", "path", r.path, "error", err)
		return
	}

	state.ApplySnapshot(&snap)
}

// Write serializes a snapshot and replaces the file atomically.
func (r *Repository) Write(snap *game.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := AtomicWrite(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// AtomicWrite writes data to a temp file and renames it into place so a
// crash mid-write never leaves a truncated file behind.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
