package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("marshals as YYYY-MM-DD", func(t *testing.T) {
		b, err := json.Marshal(NewDate(2008, 12, 10))
		require.NoError(t, err)
		assert.Equal(t, `"2008-12-10"`, string(b))
	})

	t.Run("unmarshals YYYY-MM-DD", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2008-12-10"`), &d))
		assert.Equal(t, "2008-12-10", d.String())
	})

	t.Run("unmarshals RFC 3339 timestamps", func(t *testing.T) {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(`"2008-12-10T00:00:00Z"`), &d))
		assert.Equal(t, "2008-12-10", d.String())
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"12/10/2008"`), &d))
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  ADA@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
	assert.Equal(t, "", NormalizeEmail(""))
}

func TestToEntity(t *testing.T) {
	t.Run("trims and collapses", func(t *testing.T) {
		req := StudentRequest{
			FirstName:   "  Ada ",
			LastName:    " Lovelace  ",
			Address:     " 1 Analytical Way ",
			DateOfBirth: NewDate(2008, 12, 10),
			Email:       "   ",
			Phone:       "",
			Grade:       " 12 ",
		}

		e := req.ToEntity(0)
		assert.Equal(t, int64(0), e.ID)
		assert.Equal(t, "Ada", e.FirstName)
		assert.Equal(t, "Lovelace", e.LastName)
		assert.Equal(t, "1 Analytical Way", e.Address)
		assert.Empty(t, e.Email)
		assert.Empty(t, e.Phone)
		assert.Equal(t, "12", e.Grade)
	})

	t.Run("defaults status to active", func(t *testing.T) {
		e := StudentRequest{}.ToEntity(0)
		assert.Equal(t, StatusActive, e.EnrollmentStatus)
	})

	t.Run("keeps an explicit status", func(t *testing.T) {
		status := StatusInactive
		e := StudentRequest{EnrollmentStatus: &status}.ToEntity(0)
		assert.Equal(t, StatusInactive, e.EnrollmentStatus)
	})

	t.Run("uses the given id", func(t *testing.T) {
		e := StudentRequest{}.ToEntity(7)
		assert.Equal(t, int64(7), e.ID)
	})
}

func TestToResponse(t *testing.T) {
	s := Student{
		ID: 3, FirstName: "Grace", LastName: "Hopper", Address: "99 Cobol Ct",
		DateOfBirth: NewDate(2010, 12, 9), Grade: "K",
		EnrollmentStatus: StatusInactive,
	}

	r := s.ToResponse()
	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, "Grace", r.FirstName)
	assert.Equal(t, "K", r.Grade)
	assert.Equal(t, StatusInactive, r.EnrollmentStatus)
}

func TestToResponses_EmptyIsNotNil(t *testing.T) {
	out := ToResponses(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestStudentJSON_OmitsAbsentOptionals(t *testing.T) {
	b, err := json.Marshal(Student{
		ID: 1, FirstName: "Grace", LastName: "Hopper",
		DateOfBirth: NewDate(2010, 12, 9), Grade: "K",
		EnrollmentStatus: StatusInactive,
	})
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"email"`)
	assert.NotContains(t, string(b), `"phone"`)
	assert.Contains(t, string(b), `"grade":"K"`)
}
