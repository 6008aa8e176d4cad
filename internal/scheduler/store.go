package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists tasks as a single JSON document keyed by task ID. Every
// save rewrites the whole file, so the document on disk always reflects a
// complete state, never a partial edit.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all persisted tasks. A missing file is an empty schedule,
// not an error.
func (s *Store) Load() (map[string]*Task, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]*Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	tasks := map[string]*Task{}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks file: %w", err)
	}
	return tasks, nil
}

// Save overwrites the tasks file with the full task set
func (s *Store) Save(tasks map[string]*Task) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create tasks directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write tasks file: %w", err)
	}
	return nil
}
