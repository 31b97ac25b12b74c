package github

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Stats aggregates counters over the full repository list, before the fork
// filter is applied.
type Stats struct {
	TotalRepos  int `json:"totalRepos"`
	TotalStars  int `json:"totalStars"`
	TotalForks  int `json:"totalForks"`
	ForkedRepos int `json:"forkedRepos"`
}

// Snapshot is the artifact produced by the extractor and the sole input to
// the analyzer. Repositories holds non-forks only.
type Snapshot struct {
	Profile      *Profile       `json:"profile"`
	Repositories []*Repository  `json:"repositories"`
	Languages    map[string]int `json:"languages"`
	Stats        *Stats         `json:"stats"`
}

// ToFile writes the snapshot, fully replacing any previous one. The write
// goes through a temp file and a rename so an aborted run never leaves a
// partial snapshot behind.
func (s *Snapshot) ToFile(path string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// SnapshotFromFile reads a snapshot written by ToFile.
func SnapshotFromFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot %q: %w", path, err)
	}

	return &snapshot, nil
}
