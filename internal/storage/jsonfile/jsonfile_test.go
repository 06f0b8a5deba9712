package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"students-service/internal/types"
)

func newStudent(first, last, email string) types.Student {
	return types.Student{
		FirstName:        first,
		LastName:         last,
		Address:          "123 Test St",
		DateOfBirth:      types.NewDate(2010, 1, 1),
		Email:            email,
		Grade:            "5",
		EnrollmentStatus: types.StatusActive,
	}
}

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "students.json")
}

func readSnapshot(t *testing.T, path string) []types.Student {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var items []types.Student
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestNew(t *testing.T) {
	t.Run("creates directory and empty snapshot", func(t *testing.T) {
		path := storePath(t)

		store, err := New(path)
		require.NoError(t, err)

		all, err := store.GetAll()
		require.NoError(t, err)
		assert.Empty(t, all)

		// The file exists immediately after construction.
		assert.Empty(t, readSnapshot(t, path))
	})

	t.Run("malformed snapshot is fatal", func(t *testing.T) {
		path := storePath(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(`{definitely not json`), 0o644))

		_, err := New(path)
		assert.Error(t, err)
	})
}

func TestRoundTrip(t *testing.T) {
	path := storePath(t)

	store, err := New(path)
	require.NoError(t, err)

	st := newStudent("Linus", "Youngadev", "linus@example.com")
	st.Phone = "321-555-0101"
	created, err := store.Insert(st)
	require.NoError(t, err)

	// A fresh instance against the same path sees the same record.
	reopened, err := New(path)
	require.NoError(t, err)

	got, found, err := reopened.GetByID(created.ID)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Linus", got.FirstName)
	assert.Equal(t, "Youngadev", got.LastName)
	assert.Equal(t, "123 Test St", got.Address)
	assert.Equal(t, "2010-01-01", got.DateOfBirth.String())
	assert.Equal(t, "linus@example.com", got.Email)
	assert.Equal(t, "321-555-0101", got.Phone)
	assert.Equal(t, "5", got.Grade)
	assert.Equal(t, types.StatusActive, got.EnrollmentStatus)
}

func TestMutationsPersistImmediately(t *testing.T) {
	path := storePath(t)

	store, err := New(path)
	require.NoError(t, err)

	created, err := store.Insert(newStudent("Temp", "Orary", ""))
	require.NoError(t, err)
	keep, err := store.Insert(newStudent("Keep", "Er", ""))
	require.NoError(t, err)

	updated := newStudent("Kept", "Er", "")
	ok, err := store.Update(keep.ID, updated)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Delete(created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	reopened, err := New(path)
	require.NoError(t, err)

	all, err := reopened.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)
	assert.Equal(t, "Kept", all[0].FirstName)
}

func TestPermissiveLoad(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	// Hand-edited seed file: comments, trailing commas, odd casing.
	seed := `// seeded by hand
[
  {
    "ID": 1,
    "FIRSTNAME": "Ada",
    "lastname": "Lovelace",
    "Address": "1 Analytical Way",
    "dateOfBirth": "2008-12-10",
    "Email": "ada@example.com",
    "grade": "12",
    "enrollmentStatus": "active", // still enrolled
  },
]
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	store, err := New(path)
	require.NoError(t, err)

	got, found, err := store.GetByID(1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "2008-12-10", got.DateOfBirth.String())
}

func TestIDRepair(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	seed := `[
  {"id": 0, "firstName": "Zero", "lastName": "Id", "address": "a", "dateOfBirth": "2010-01-01", "grade": "1", "enrollmentStatus": "active"},
  {"id": 5, "firstName": "Five", "lastName": "Id", "address": "a", "dateOfBirth": "2010-01-01", "grade": "1", "enrollmentStatus": "active"},
  {"id": -1, "firstName": "Negative", "lastName": "Id", "address": "a", "dateOfBirth": "2010-01-01", "grade": "1", "enrollmentStatus": "active"}
]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	store, err := New(path)
	require.NoError(t, err)

	// Repaired ids start one past the max well-formed id, in file order.
	all, err := store.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(5), all[0].ID)
	assert.Equal(t, "Zero", all[1].FirstName)
	assert.Equal(t, int64(6), all[1].ID)
	assert.Equal(t, "Negative", all[2].FirstName)
	assert.Equal(t, int64(7), all[2].ID)

	// The snapshot was rewritten without non-positive ids.
	for _, st := range readSnapshot(t, path) {
		assert.Greater(t, st.ID, int64(0))
	}

	// The next insert continues past the repaired range.
	created, err := store.Insert(newStudent("Next", "Up", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID)
}

func TestInterruptedWriteLeavesSnapshotIntact(t *testing.T) {
	path := storePath(t)

	store, err := New(path)
	require.NoError(t, err)
	created, err := store.Insert(newStudent("Sur", "Vivor", ""))
	require.NoError(t, err)

	// Simulate a crash mid-write: a half-written temp file beside the
	// snapshot. The real path must still hold the complete snapshot.
	require.NoError(t, os.WriteFile(path+".tmp", []byte(`[{"id": 1, "firs`), 0o644))

	reopened, err := New(path)
	require.NoError(t, err)

	got, found, err := reopened.GetByID(created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Sur", got.FirstName)
}

func TestSnapshotFormat(t *testing.T) {
	path := storePath(t)

	store, err := New(path)
	require.NoError(t, err)
	_, err = store.Insert(newStudent("Ada", "Lovelace", "ada@example.com"))
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// Indented array with camelCase field names, absent email omitted.
	assert.Contains(t, string(raw), "\n  {")
	assert.Contains(t, string(raw), `"firstName": "Ada"`)
	assert.Contains(t, string(raw), `"dateOfBirth": "2010-01-01"`)
	assert.NotContains(t, string(raw), `"phone"`)
}

func TestDefensiveCopies(t *testing.T) {
	path := storePath(t)

	store, err := New(path)
	require.NoError(t, err)
	created, err := store.Insert(newStudent("Test", "User", ""))
	require.NoError(t, err)

	got, found, err := store.GetByID(created.ID)
	require.NoError(t, err)
	require.True(t, found)
	got.FirstName = "Mutated"

	again, _, err := store.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", again.FirstName)
}
