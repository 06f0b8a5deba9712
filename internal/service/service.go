// Package service implements the student service: the layer between
// the HTTP handlers and the storage backends. It owns the
// email-uniqueness invariant and the in-memory search pipeline; callers
// see request/response shapes, never repository entities.
package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"students-service/internal/storage"
	"students-service/internal/types"
)

// DuplicateEmailError reports a rejected create/update whose email is
// already in use. It carries the offending email and the id of the
// existing record so the caller can build a useful conflict response.
type DuplicateEmailError struct {
	Email      string
	ExistingID int64
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email %q is already in use by student %d", e.Email, e.ExistingID)
}

// Service is the contract the HTTP layer programs against.
type Service interface {
	GetAll() ([]types.StudentResponse, error)
	GetByID(id int64) (types.StudentResponse, bool, error)
	Create(req types.StudentRequest) (types.StudentResponse, error)
	Update(id int64, req types.StudentRequest) (bool, error)
	Delete(id int64) (bool, error)
	Search(req types.SearchRequest) ([]types.StudentResponse, error)
}

// StudentService is the concrete implementation over any
// storage.Storage backend.
type StudentService struct {
	repo storage.Storage
	log  *slog.Logger
}

// New returns a StudentService over the given repository.
func New(repo storage.Storage, log *slog.Logger) *StudentService {
	return &StudentService{repo: repo, log: log}
}

// GetAll returns every student, ascending by id.
func (s *StudentService) GetAll() ([]types.StudentResponse, error) {
	s.log.Debug("getting all students")

	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return types.ToResponses(all), nil
}

// GetByID returns one student; the bool is false when the id is absent.
func (s *StudentService) GetByID(id int64) (types.StudentResponse, bool, error) {
	s.log.Debug("getting student", slog.Int64("id", id))

	st, ok, err := s.repo.GetByID(id)
	if err != nil || !ok {
		return types.StudentResponse{}, false, err
	}
	return st.ToResponse(), true, nil
}

// Create inserts a new student. Returns a *DuplicateEmailError if the
// normalized email is already taken by a stored record.
//
// The duplicate scan and the insert are not covered by one lock; a
// concurrent caller could in principle slip a colliding email between
// them. Accepted under the single-writer deployment assumption.
func (s *StudentService) Create(req types.StudentRequest) (types.StudentResponse, error) {
	s.log.Info("creating student", slog.String("email", req.Email))

	if err := s.checkDuplicateEmail(req.Email, 0); err != nil {
		return types.StudentResponse{}, err
	}

	created, err := s.repo.Insert(req.ToEntity(0)) // repo assigns the id
	if err != nil {
		return types.StudentResponse{}, err
	}
	return created.ToResponse(), nil
}

// Update fully replaces the student under the route-supplied id. The
// bool is false when the id is absent. The duplicate check runs only
// when the normalized email actually changed, and excludes the record
// itself — an unchanged email never clashes with its own record.
func (s *StudentService) Update(id int64, req types.StudentRequest) (bool, error) {
	s.log.Info("updating student", slog.Int64("id", id))

	current, ok, err := s.repo.GetByID(id)
	if err != nil || !ok {
		return false, err
	}

	newEmail := types.NormalizeEmail(req.Email)
	oldEmail := types.NormalizeEmail(current.Email)
	if newEmail != oldEmail {
		if err := s.checkDuplicateEmail(req.Email, id); err != nil {
			return false, err
		}
	}

	return s.repo.Update(id, req.ToEntity(id)) // route id wins
}

// Delete removes the student. The bool is false when the id is absent.
func (s *StudentService) Delete(id int64) (bool, error) {
	s.log.Info("deleting student", slog.Int64("id", id))
	return s.repo.Delete(id)
}

// checkDuplicateEmail scans all stored records for the normalized
// email, skipping excludeID (0 = exclude nothing; stored ids are
// always positive). Blank emails are exempt from uniqueness.
func (s *StudentService) checkDuplicateEmail(email string, excludeID int64) error {
	norm := types.NormalizeEmail(email)
	if norm == "" {
		return nil
	}

	all, err := s.repo.GetAll()
	if err != nil {
		return err
	}
	for _, st := range all {
		if st.ID != excludeID && types.NormalizeEmail(st.Email) == norm {
			return &DuplicateEmailError{Email: email, ExistingID: st.ID}
		}
	}
	return nil
}

// Search runs the in-memory pipeline over the full snapshot:
// filter (AND-combined, all optional) → stable sort → paginate → map.
func (s *StudentService) Search(req types.SearchRequest) ([]types.StudentResponse, error) {
	s.log.Debug("searching students",
		slog.String("grade", req.Grade),
		slog.String("status", string(req.Status)),
		slog.String("nameContains", req.NameContains),
	)

	all, err := s.repo.GetAll() // already ascending by id
	if err != nil {
		return nil, err
	}

	grade := strings.TrimSpace(req.Grade)
	term := strings.ToLower(strings.TrimSpace(req.NameContains))

	matched := make([]types.Student, 0, len(all))
	for _, st := range all {
		if grade != "" && st.Grade != grade {
			continue
		}
		if req.Status != "" && st.EnrollmentStatus != req.Status {
			continue
		}
		if term != "" && !nameContains(st, term) {
			continue
		}
		matched = append(matched, st)
	}

	sortStudents(matched, req.SortBy, req.Desc)

	return types.ToResponses(paginate(matched, req.Page, req.PageSize)), nil
}

// nameContains reports whether the term appears, case-insensitively,
// in the first name, last name, or email.
func nameContains(st types.Student, term string) bool {
	return strings.Contains(strings.ToLower(st.FirstName), term) ||
		strings.Contains(strings.ToLower(st.LastName), term) ||
		strings.Contains(strings.ToLower(st.Email), term)
}

// sortStudents sorts in place by the named key. Unrecognized keys fall
// back to id order rather than failing. The sort is stable, and the
// input is id-ordered, so equal keys keep ascending-id order.
func sortStudents(list []types.Student, sortBy string, desc bool) {
	var less func(a, b types.Student) bool
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "firstname":
		less = func(a, b types.Student) bool { return a.FirstName < b.FirstName }
	case "lastname":
		less = func(a, b types.Student) bool { return a.LastName < b.LastName }
	case "grade":
		less = func(a, b types.Student) bool { return a.Grade < b.Grade }
	default: // "id" and anything unrecognized
		less = func(a, b types.Student) bool { return a.ID < b.ID }
	}

	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// paginate applies 1-indexed paging. A page past the end yields an
// empty slice, never an error.
func paginate(list []types.Student, page, pageSize int) []types.Student {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	start := (page - 1) * pageSize
	if start >= len(list) {
		return nil
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
