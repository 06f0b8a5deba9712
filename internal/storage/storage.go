// Package storage defines the Storage interface — the contract every
// storage backend must satisfy. The service layer depends only on this
// interface, so the memory, JSON-file, and SQLite backends are
// interchangeable with a one-line change in main.
//
// Ownership rule, uniform across backends: the store exclusively owns
// its internal copy of every record. Writes store a clone of the input
// and reads return clones, so a caller mutating what it received never
// corrupts stored state.
package storage

import "students-service/internal/types"

// Storage is the repository contract.
//
// Absence is a boolean, not an error: GetByID, Update, and Delete
// report a missing id through their bool result and reserve the error
// for storage failures (file I/O, SQL). The email-uniqueness invariant
// is not enforced here — that is the service's job.
type Storage interface {
	// GetAll returns a snapshot of every student, ascending by id.
	// Returns an empty slice (not nil) when the store is empty.
	GetAll() ([]types.Student, error)

	// GetByID fetches one student. The bool is false if the id is
	// not present.
	GetByID(id int64) (types.Student, bool, error)

	// Insert stores the student under a freshly assigned id, ignoring
	// any id the caller supplied, and returns the stored value.
	Insert(student types.Student) (types.Student, error)

	// Update replaces the record wholesale. The given id is
	// authoritative regardless of the id in the payload. The bool is
	// false if the id is not present; the store is then unchanged.
	Update(id int64, student types.Student) (bool, error)

	// Delete removes the record. The bool is false if the id is not
	// present.
	Delete(id int64) (bool, error)
}
