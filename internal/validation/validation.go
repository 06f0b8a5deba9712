// Package validation wraps a single go-playground/validator instance
// with the custom tags the student shapes need:
//
//	pastdate — a Date strictly before today
//	grade    — "K" (case-insensitive) or a number between 1 and 12
//	usphone  — a US phone number (optional field, blank passes)
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"students-service/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for a blank tag name; safe to ignore.
	_ = v.RegisterValidation("pastdate", pastDate)
	_ = v.RegisterValidation("grade", gradeLevel)
	_ = v.RegisterValidation("usphone", usPhone)
	return v
}

// Struct validates all validate:"..." tags on v. The returned error is
// a validator.ValidationErrors when any rule fails.
func Struct(v any) error {
	return validate.Struct(v)
}

// pastDate accepts dates strictly before today; today itself fails.
func pastDate(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(types.Date)
	if !ok {
		return false
	}
	y, m, day := time.Now().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

// gradeLevel accepts "K" (any case) or an integer 1..12.
func gradeLevel(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if strings.EqualFold(s, "K") {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 12
}

var usPhoneRx = regexp.MustCompile(
	`^(?:\+1[-.\s]?)?(?:\(?\d{3}\)?[-.\s]?)\d{3}[-.\s]?\d{4}$`,
)

// usPhone accepts US numbers like "321-555-0101", "(321) 555-0102",
// or "+1 321 555 0101". Blank passes; the field is optional.
func usPhone(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	return usPhoneRx.MatchString(s)
}
