package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type record struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func TestMissingFileReadsEmpty(t *testing.T) {
	t.Parallel()

	coll, err := NewCollection[record](t.TempDir(), "records.json")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	records, err := coll.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty collection, got %d records", len(records))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	coll, err := NewCollection[record](dir, "records.json")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}

	want := []record{{ID: "a", Value: 1}, {ID: "b", Value: 2}}
	if err := coll.SaveAll(want); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	got, err := coll.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	// No temp file should remain after the rename.
	if _, err := os.Stat(filepath.Join(dir, "records.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("expected temp file to be renamed away")
	}
}

func TestMutateError(t *testing.T) {
	t.Parallel()

	coll, err := NewCollection[record](t.TempDir(), "records.json")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	if err := coll.SaveAll([]record{{ID: "a", Value: 1}}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	sentinel := errors.New("boom")
	err = coll.Mutate(func(records []record) ([]record, error) {
		return nil, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	// A failed mutation must not alter the stored records.
	records, err := coll.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Errorf("expected original records to survive failed mutation, got %+v", records)
	}
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	t.Parallel()

	coll, err := NewCollection[record](t.TempDir(), "records.json")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	if err := coll.SaveAll([]record{{ID: "counter", Value: 0}}); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = coll.Mutate(func(records []record) ([]record, error) {
				records[0].Value++
				return records, nil
			})
		}()
	}
	wg.Wait()

	records, err := coll.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if records[0].Value != writers {
		t.Errorf("expected %d increments, got %d", writers, records[0].Value)
	}
}
