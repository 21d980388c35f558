package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection is a flat JSON file holding a full slice of records. Every
// write rewrites the whole file. A single mutex serializes read-modify-write
// cycles so concurrent mutations cannot lose updates within this process.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// NewCollection creates a collection stored at dir/name.
func NewCollection[T any](dir, name string) (*Collection[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Collection[T]{path: filepath.Join(dir, name)}, nil
}

// LoadAll returns every record. A missing file reads as an empty collection.
func (c *Collection[T]) LoadAll() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// SaveAll replaces the entire collection.
func (c *Collection[T]) SaveAll(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked(records)
}

// Mutate applies fn to the current records and persists the result, holding
// the collection lock for the whole cycle.
func (c *Collection[T]) Mutate(fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.loadLocked()
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.saveLocked(updated)
}

func (c *Collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return records, nil
}

func (c *Collection[T]) saveLocked(records []T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	// Write to a temp file and rename so readers never observe a torn file.
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
