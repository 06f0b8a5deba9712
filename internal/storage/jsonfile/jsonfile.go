// Package jsonfile provides a durable implementation of the
// storage.Storage interface. The whole collection is the unit of
// persistence: a single indented JSON array, sorted by id, rewritten in
// full after every mutation.
//
// Durability contract:
//
//   - Load on construction. An absent file is treated as empty and an
//     empty snapshot is written immediately, so the file always exists
//     after New returns. Malformed JSON is fatal to construction.
//   - The load is permissive — comments, trailing commas, and
//     case-insensitive field names are all tolerated, so hand-edited
//     seed files keep loading.
//   - Records loaded with id <= 0 are repaired: each receives a fresh
//     id above the maximum well-formed id, and the snapshot is
//     rewritten so the file never carries zero or negative ids after a
//     successful load.
//   - Every write goes to a temporary file in the same directory which
//     then replaces the real path, so a crash mid-write leaves either
//     the old complete snapshot or the new one on disk — never a mix.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/tailscale/hujson"

	"students-service/internal/types"
)

// Store is the file-backed backend. One exclusive lock serializes every
// mutation for its full duration, including the snapshot rewrite; reads
// take the shared side so they always observe a consistent map.
type Store struct {
	path string

	mu       sync.RWMutex
	students map[int64]types.Student
	nextID   int64
}

// New creates the target directory if missing, loads the snapshot at
// path (creating an empty one if absent), and returns a ready store.
// A file that exists but does not parse is a construction error; there
// is no partial-recovery path for a corrupt snapshot.
func New(path string) (*Store, error) {
	s := &Store{
		path:     path,
		students: make(map[int64]types.Student),
		nextID:   1,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads and parses the snapshot, repairs non-positive ids, and
// seeds the next-id counter to one past the highest id present.
func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: persist an empty snapshot so the file exists.
		return s.save()
	}
	if err != nil {
		return fmt.Errorf("jsonfile: read %s: %w", s.path, err)
	}

	// hujson strips comments and trailing commas; encoding/json then
	// matches field names case-insensitively on its own.
	std, err := hujson.Standardize(raw)
	if err != nil {
		return fmt.Errorf("jsonfile: parse %s: %w", s.path, err)
	}
	var items []types.Student
	if err := json.Unmarshal(std, &items); err != nil {
		return fmt.Errorf("jsonfile: parse %s: %w", s.path, err)
	}

	var maxID int64
	for _, st := range items {
		if st.ID > maxID {
			maxID = st.ID
		}
	}

	next := maxID + 1
	repaired := false
	for _, st := range items {
		if st.ID <= 0 {
			st.ID = next
			next++
			repaired = true
		}
		s.students[st.ID] = st.Clone()
	}
	s.nextID = next

	if repaired {
		return s.save()
	}
	return nil
}

// save writes the full snapshot atomically: serialize to a temporary
// file beside the target, then rename it over the target. Callers must
// hold the write lock (or have exclusive access during construction).
func (s *Store) save() error {
	list := s.snapshotLocked()

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jsonfile: replace snapshot: %w", err)
	}
	return nil
}

// snapshotLocked returns clones of all records, ascending by id.
func (s *Store) snapshotLocked() []types.Student {
	list := make([]types.Student, 0, len(s.students))
	for _, st := range s.students {
		list = append(list, st.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// GetAll returns a snapshot of all students, ascending by id.
func (s *Store) GetAll() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

// GetByID returns a copy of the student, or false if the id is absent.
func (s *Store) GetByID(id int64) (types.Student, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok {
		return types.Student{}, false, nil
	}
	return st.Clone(), true, nil
}

// Insert assigns the next id, stores a clone, and rewrites the
// snapshot, all under the mutation lock.
func (s *Store) Insert(student types.Student) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student.ID = s.nextID
	s.nextID++
	s.students[student.ID] = student.Clone()

	if err := s.save(); err != nil {
		return types.Student{}, err
	}
	return student, nil
}

// Update replaces the record wholesale under the given id and rewrites
// the snapshot. Returns false, without touching the file, if the id is
// absent.
func (s *Store) Update(id int64, student types.Student) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	student.ID = id // route id is the source of truth
	s.students[id] = student.Clone()

	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record and rewrites the snapshot. Returns false,
// without touching the file, if the id is absent.
func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	delete(s.students, id)

	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}
