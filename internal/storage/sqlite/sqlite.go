// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// Ids come from the AUTOINCREMENT primary key, so the repository's id
// guarantees (strictly positive, never reissued within an instance)
// hold here as well. Absence is detected through sql.ErrNoRows and
// RowsAffected, matching the boolean absence contract.
//
// The blank import below registers the sqlite3 driver with
// database/sql; nothing from it is called directly.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"students-service/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage. A single
// *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	db *sql.DB
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite.New: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name        TEXT NOT NULL,
			last_name         TEXT NOT NULL,
			address           TEXT NOT NULL,
			date_of_birth     TEXT NOT NULL,
			email             TEXT,
			phone             TEXT,
			grade             TEXT NOT NULL,
			enrollment_status TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const selectColumns = `id, first_name, last_name, address, date_of_birth,
	COALESCE(email, ''), COALESCE(phone, ''), grade, enrollment_status`

// scanStudent reads one row into a Student. The column order must match
// selectColumns.
func scanStudent(scan func(dest ...any) error) (types.Student, error) {
	var st types.Student
	var dob string
	if err := scan(
		&st.ID,
		&st.FirstName,
		&st.LastName,
		&st.Address,
		&dob,
		&st.Email,
		&st.Phone,
		&st.Grade,
		&st.EnrollmentStatus,
	); err != nil {
		return types.Student{}, err
	}

	date, err := types.ParseDate(dob)
	if err != nil {
		return types.Student{}, err
	}
	st.DateOfBirth = date
	return st, nil
}

// nullable maps the "" = absent convention onto SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetAll returns every student, ascending by id. Returns an empty
// slice (not nil) when the table is empty.
func (s *SQLite) GetAll() ([]types.Student, error) {
	rows, err := s.db.Query(
		"SELECT " + selectColumns + " FROM students ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: get all: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows iteration: %w", err)
	}
	return students, nil
}

// GetByID fetches one student by primary key. The bool is false when
// no row matches.
func (s *SQLite) GetByID(id int64) (types.Student, bool, error) {
	row := s.db.QueryRow(
		"SELECT "+selectColumns+" FROM students WHERE id = ? LIMIT 1", id,
	)
	st, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return types.Student{}, false, nil
	}
	if err != nil {
		return types.Student{}, false, fmt.Errorf("sqlite: get by id: %w", err)
	}
	return st, true, nil
}

// Insert stores a new row; the id comes from AUTOINCREMENT and any
// caller-supplied id is ignored.
func (s *SQLite) Insert(student types.Student) (types.Student, error) {
	stmt, err := s.db.Prepare(`
		INSERT INTO students
			(first_name, last_name, address, date_of_birth, email, phone, grade, enrollment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlite: insert: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.FirstName,
		student.LastName,
		student.Address,
		student.DateOfBirth.String(),
		nullable(student.Email),
		nullable(student.Phone),
		student.Grade,
		student.EnrollmentStatus,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlite: insert: exec: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("sqlite: insert: last insert id: %w", err)
	}
	student.ID = id
	return student, nil
}

// Update replaces all fields of the row under the given id. The bool
// is false when no row matches.
func (s *SQLite) Update(id int64, student types.Student) (bool, error) {
	stmt, err := s.db.Prepare(`
		UPDATE students SET
			first_name = ?, last_name = ?, address = ?, date_of_birth = ?,
			email = ?, phone = ?, grade = ?, enrollment_status = ?
		WHERE id = ?
	`)
	if err != nil {
		return false, fmt.Errorf("sqlite: update: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(
		student.FirstName,
		student.LastName,
		student.Address,
		student.DateOfBirth.String(),
		nullable(student.Email),
		nullable(student.Phone),
		student.Grade,
		student.EnrollmentStatus,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: update: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: update: rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes the row. The bool is false when no row matches.
func (s *SQLite) Delete(id int64) (bool, error) {
	result, err := s.db.Exec("DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("sqlite: delete: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: delete: rows affected: %w", err)
	}
	return affected > 0, nil
}
