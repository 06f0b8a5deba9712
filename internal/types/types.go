// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, service, and storage can all import types without depending
// on each other.
//
// Three shapes exist for a student:
//
//   - Student         — the stored entity, owned by a repository
//   - StudentRequest  — inbound payload, everything mutable but no id
//   - StudentResponse — outbound payload, all fields including id
//
// The request→entity mapping (ToEntity) trims string fields, collapses
// blank optional fields to absent, and defaults the enrollment status.
// It runs before any uniqueness check and before persistence, so the
// stored form is always the normalized one.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for dates: "2006-01-02".
const DateLayout = "2006-01-02"

// Date is a calendar date (no time-of-day semantics). It marshals as
// "YYYY-MM-DD" and unmarshals either that or a full RFC 3339 timestamp,
// so hand-edited seed files and exports from other systems both load.
type Date struct {
	time.Time
}

// NewDate returns the given calendar date at UTC midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// Fall back to a full timestamp; only the date part matters.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("date %q: expected %q or RFC 3339", s, DateLayout)
		}
	}
	*d = Date{t}
	return nil
}

// EnrollmentStatus is the student's enrollment state.
// Serialized as a lowercase string.
type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusInactive  EnrollmentStatus = "inactive"
	StatusGraduated EnrollmentStatus = "graduated"
)

// Student is the stored entity. ID is assigned by the repository on
// insert, never 0 for a stored record, and immutable thereafter.
// Email and Phone use "" for absent and are omitted from JSON.
type Student struct {
	ID               int64            `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Address          string           `json:"address"`
	DateOfBirth      Date             `json:"dateOfBirth"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Grade            string           `json:"grade"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
}

// Clone returns an independent copy of the student. Every field is a
// value type, so a struct copy is a full copy; the named operation keeps
// the store-owns-its-state rule explicit at each repository boundary.
func (s Student) Clone() Student {
	return s
}

// StudentRequest carries all mutable fields of a student. The id is
// never part of the payload — on update the route id wins.
type StudentRequest struct {
	FirstName        string            `json:"firstName" validate:"required,max=50"`
	LastName         string            `json:"lastName" validate:"required,max=50"`
	Address          string            `json:"address" validate:"required,max=100"`
	DateOfBirth      Date              `json:"dateOfBirth" validate:"required,pastdate"`
	Email            string            `json:"email" validate:"omitempty,email"`
	Phone            string            `json:"phone" validate:"omitempty,usphone"`
	Grade            string            `json:"grade" validate:"required,grade"`
	EnrollmentStatus *EnrollmentStatus `json:"enrollmentStatus" validate:"omitempty,oneof=active inactive graduated"`
}

// ToEntity maps the request to an entity. Pass id 0 for creates; for
// updates pass the route id so it overrides anything in the payload.
// String fields are trimmed, blank Email/Phone collapse to absent, and
// a nil status defaults to active.
func (r StudentRequest) ToEntity(id int64) Student {
	status := StatusActive
	if r.EnrollmentStatus != nil {
		status = *r.EnrollmentStatus
	}
	return Student{
		ID:               id,
		FirstName:        strings.TrimSpace(r.FirstName),
		LastName:         strings.TrimSpace(r.LastName),
		Address:          strings.TrimSpace(r.Address),
		DateOfBirth:      r.DateOfBirth,
		Email:            collapseBlank(r.Email),
		Phone:            collapseBlank(r.Phone),
		Grade:            strings.TrimSpace(r.Grade),
		EnrollmentStatus: status,
	}
}

// StudentResponse is the outbound shape: all fields including the id.
type StudentResponse struct {
	ID               int64            `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Address          string           `json:"address"`
	DateOfBirth      Date             `json:"dateOfBirth"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Grade            string           `json:"grade"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
}

// ToResponse maps the entity to its response shape.
func (s Student) ToResponse() StudentResponse {
	return StudentResponse{
		ID:               s.ID,
		FirstName:        s.FirstName,
		LastName:         s.LastName,
		Address:          s.Address,
		DateOfBirth:      s.DateOfBirth,
		Email:            s.Email,
		Phone:            s.Phone,
		Grade:            s.Grade,
		EnrollmentStatus: s.EnrollmentStatus,
	}
}

// ToResponses maps a slice of entities. Always returns a non-nil slice
// so an empty result encodes as [] rather than null.
func ToResponses(students []Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, s.ToResponse())
	}
	return out
}

// SearchRequest is the criteria for the filter → sort → paginate
// pipeline. Zero-valued filters are inactive.
type SearchRequest struct {
	Grade        string           `json:"grade" validate:"omitempty,grade"`
	Status       EnrollmentStatus `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	NameContains string           `json:"nameContains" validate:"max=100"`
	Page         int              `json:"page" validate:"min=1"`
	PageSize     int              `json:"pageSize" validate:"min=1,max=200"`
	SortBy       string           `json:"sortBy"` // id | firstName | lastName | grade
	Desc         bool             `json:"desc"`
}

// DefaultSearchRequest returns the criteria defaults: first page of 50,
// sorted ascending by id.
func DefaultSearchRequest() SearchRequest {
	return SearchRequest{Page: 1, PageSize: 50, SortBy: "id"}
}

// NormalizeEmail returns the trimmed, lowercased form of an email used
// for uniqueness comparison, or "" when the email is blank. The
// normalized form is never stored or displayed.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func collapseBlank(s string) string {
	return strings.TrimSpace(s)
}
