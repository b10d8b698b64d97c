// Package jsonfile persists the word set as a JSON array on disk.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wordloop/internal/domain"
)

// WordRepo implements repository.WordRepository on a single JSON file.
type WordRepo struct {
	path string
}

// NewWordRepo creates a word repository writing to the given path.
func NewWordRepo(path string) *WordRepo {
	return &WordRepo{path: path}
}

// Load reads the persisted word set.
func (r *WordRepo) Load() ([]domain.Word, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read word file: %w", err)
	}

	var words []domain.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("decode word file: %w", err)
	}
	return words, nil
}

// Save overwrites the word file with the given set.
func (r *WordRepo) Save(words []domain.Word) error {
	if words == nil {
		words = []domain.Word{}
	}
	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return fmt.Errorf("encode word file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write word file: %w", err)
	}
	return nil
}

// Delete removes the word file.
func (r *WordRepo) Delete() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete word file: %w", err)
	}
	return nil
}
