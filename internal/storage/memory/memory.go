// Package memory provides a volatile, in-memory implementation of the
// storage.Storage interface: a map guarded for concurrent access plus a
// monotonically increasing id allocator. Everything is lost on process
// exit; nothing is ever written to disk.
package memory

import (
	"sort"
	"sync"

	"students-service/internal/types"
)

// Store is the in-memory backend. The RWMutex protects the map; id
// allocation has its own mutex so two concurrent inserts can never race
// to the same id.
type Store struct {
	mu       sync.RWMutex
	students map[int64]types.Student

	idMu   sync.Mutex
	nextID int64
}

// New returns a store pre-seeded with three sample students (ids 1..3
// in insertion order). The seeding is part of the documented startup
// behaviour of the memory backend, not incidental test data.
func New() *Store {
	s := &Store{
		students: make(map[int64]types.Student),
		nextID:   1,
	}

	seeds := []types.Student{
		{
			FirstName: "Ada", LastName: "Lovelace", Address: "1 Analytical Way",
			DateOfBirth: types.NewDate(2008, 12, 10),
			Email:       "ada@example.com", Phone: "321-555-0101",
			Grade: "12", EnrollmentStatus: types.StatusActive,
		},
		{
			FirstName: "Alan", LastName: "Turing", Address: "23 Enigma Rd",
			DateOfBirth: types.NewDate(2009, 6, 23),
			Email:       "alan@example.com", Phone: "(321) 555-0102",
			Grade: "11", EnrollmentStatus: types.StatusActive,
		},
		{
			FirstName: "Grace", LastName: "Hopper", Address: "99 Cobol Ct",
			DateOfBirth: types.NewDate(2010, 12, 9),
			Grade:       "K", EnrollmentStatus: types.StatusInactive,
		},
	}
	for _, seed := range seeds {
		s.Insert(seed)
	}

	return s
}

// allocID hands out the next id. The counter has a dedicated lock so
// the read-increment sequence is atomic under concurrent inserts.
func (s *Store) allocID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id := s.nextID
	s.nextID++
	return id
}

// GetAll returns a snapshot of all students, ascending by id.
func (s *Store) GetAll() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]types.Student, 0, len(s.students))
	for _, st := range s.students {
		all = append(all, st.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
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

// Insert assigns a fresh id (any caller-supplied id is ignored) and
// stores a clone. Never fails for a well-formed input.
func (s *Store) Insert(student types.Student) (types.Student, error) {
	student.ID = s.allocID()

	s.mu.Lock()
	s.students[student.ID] = student.Clone()
	s.mu.Unlock()

	return student, nil
}

// Update replaces the stored record wholesale under the given id.
// Returns false, leaving the store unchanged, if the id is absent.
func (s *Store) Update(id int64, student types.Student) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	student.ID = id // route id is the source of truth
	s.students[id] = student.Clone()
	return true, nil
}

// Delete removes the record. Returns false if the id is absent.
func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return false, nil
	}
	delete(s.students, id)
	return true, nil
}
