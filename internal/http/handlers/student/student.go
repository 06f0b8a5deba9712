// Package student contains the HTTP handlers for the student resource.
//
// Each handler is a factory: it receives the service once at route
// registration and returns the func the router calls per request. The
// handlers own the HTTP mapping — decode, validate, translate service
// outcomes to status codes — and nothing else; every business rule
// lives in the service.
//
// Status mapping:
//
//	400 — malformed body, bad path/query parameter, failed validation
//	404 — id not present (the absence boolean from the service)
//	409 — duplicate email, with the email and clashing id attached
//	500 — storage failure
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"students-service/internal/service"
	"students-service/internal/types"
	"students-service/internal/utils/response"
	"students-service/internal/validation"
)

// New handles POST /api/students. Responds 201 with the created record,
// or 409 when the email is already in use.
func New(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		created, err := svc.Create(req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetList handles GET /api/students. Responds 200 with all students,
// [] (not null) when there are none.
func GetList(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := svc.GetAll()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// GetByID handles GET /api/students/{id}. Responds 200 with the record
// or 404 when the id is not present.
func GetByID(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, found, err := svc.GetByID(id)
		if err != nil {
			slog.Error("error getting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}
		if !found {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("student not found")))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Update handles PUT /api/students/{id}: a full replacement of every
// field, with the route id authoritative over anything in the payload.
// Responds 404 when the id is not present and 409 on a duplicate email.
func Update(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		updated, err := svc.Update(id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !updated {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("student not found")))
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// Delete handles DELETE /api/students/{id}. Responds 404 when the id
// is not present; deleting twice yields 404 the second time.
func Delete(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		deleted, err := svc.Delete(id)
		if err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}
		if !deleted {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(errors.New("student not found")))
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// Search handles GET /api/students/search. Criteria come from query
// parameters; unset parameters keep their defaults (page 1, size 50,
// ascending id order).
func Search(svc service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("searching students")

		req, ok := searchRequest(w, r)
		if !ok {
			return
		}

		if err := validation.Struct(req); err != nil {
			var validateErrs validator.ValidationErrors
			if errors.As(err, &validateErrs) {
				response.WriteJSON(w, http.StatusBadRequest,
					response.ValidationError(validateErrs))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		results, err := svc.Search(req)
		if err != nil {
			slog.Error("error searching students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, results)
	}
}

// decodeRequest reads and validates the JSON body. On failure it writes
// the 400 response itself and returns ok=false.
func decodeRequest(w http.ResponseWriter, r *http.Request) (types.StudentRequest, bool) {
	var req types.StudentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return req, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return req, false
	}

	if err := validation.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return req, false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return req, false
	}

	return req, true
}

// pathID parses the {id} path segment. On failure it writes the 400
// response itself and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// searchRequest builds a SearchRequest from query parameters, starting
// from the defaults. On a malformed numeric/bool parameter it writes
// the 400 response itself and returns ok=false.
func searchRequest(w http.ResponseWriter, r *http.Request) (types.SearchRequest, bool) {
	q := r.URL.Query()
	req := types.DefaultSearchRequest()

	req.Grade = q.Get("grade")
	req.Status = types.EnrollmentStatus(strings.ToLower(q.Get("status")))
	req.NameContains = q.Get("nameContains")
	if v := q.Get("sortBy"); v != "" {
		req.SortBy = v
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid page: must be an integer")))
			return req, false
		}
		req.Page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid pageSize: must be an integer")))
			return req, false
		}
		req.PageSize = n
	}
	if v := q.Get("desc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid desc: must be a boolean")))
			return req, false
		}
		req.Desc = b
	}

	return req, true
}

// writeServiceError maps a Create/Update failure: duplicate email gets
// a 409 with the attached data, everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var dup *service.DuplicateEmailError
	if errors.As(err, &dup) {
		slog.Info("duplicate email rejected",
			slog.String("email", dup.Email),
			slog.Int64("existingId", dup.ExistingID))
		response.WriteJSON(w, http.StatusConflict,
			response.Conflict(dup.Email, dup.ExistingID))
		return
	}

	slog.Error("service error", slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
