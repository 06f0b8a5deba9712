// Package response provides helpers for writing consistent JSON HTTP
// responses. Success responses may be any JSON shape; error responses
// always use the envelope below, so API consumers know what failures
// look like.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the standard envelope for error cases:
//
//	{ "status": "error", "error": "field FirstName is required" }
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ConflictResponse is the envelope for a duplicate-email rejection. It
// carries the two data points the client needs: the rejected email and
// the id of the record it collided with.
type ConflictResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Email      string `json:"email"`
	ExistingID int64  `json:"existingId"`
}

// WriteJSON writes data as a JSON body with the given HTTP status.
// Headers must be set before WriteHeader, which must precede the body.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard envelope. Use for
// unexpected failures (storage errors, decode errors, etc.).
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Conflict builds the duplicate-email payload for a 409 response.
func Conflict(email string, existingID int64) ConflictResponse {
	return ConflictResponse{
		Status:     StatusError,
		Error:      fmt.Sprintf("email %q is already in use", email),
		Email:      email,
		ExistingID: existingID,
	}
}

// ValidationError converts validator field errors into a single
// human-readable envelope, one sentence per failing field.
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is too long (max %s)", e.Field(), e.Param()))
		case "min":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		case "pastdate":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a date before today", e.Field()))
		case "grade":
			errMessages = append(errMessages,
				fmt.Sprintf(`field %s must be "K" or a number between 1 and 12`, e.Field()))
		case "usphone":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid US phone number", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(errMessages, ", "),
	}
}
