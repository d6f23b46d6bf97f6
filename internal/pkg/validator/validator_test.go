package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"))
	assert.True(t, IsValidUUID("123e4567-e89b-12d3-a456-426614174000"))
	assert.False(t, IsValidUUID("0188d0f27b8c7b4a8a2b6b8b8b8b8b8b"))
	assert.False(t, IsValidUUID("g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2024-03-01")
	assert.True(t, ok)
	_, ok = IsValidDate("2024-13-01")
	assert.False(t, ok)
	_, ok = IsValidDate("01-03-2024")
	assert.False(t, ok)
}

func TestIsValidPhoneNumber(t *testing.T) {
	assert.True(t, IsValidPhoneNumber("+91 98765 43210"))
	assert.True(t, IsValidPhoneNumber("0812-3456-789"))
	assert.False(t, IsValidPhoneNumber("12345"))
	assert.False(t, IsValidPhoneNumber("phone"))
}

func TestIsValidShortName(t *testing.T) {
	assert.True(t, IsValidShortName("GZ"))
	assert.True(t, IsValidShortName("ACMEIN"))
	assert.False(t, IsValidShortName("A"))
	assert.False(t, IsValidShortName("TOOLONGX"))
	assert.False(t, IsValidShortName("gz"))
	assert.False(t, IsValidShortName("G2"))
}

func TestIsStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Abcdef1@", true},
		{"Xyzabc12#", true},
		{"abcdef1@", false},
		{"ABCDEF1@", false},
		{"Abcdefg@", false},
		{"Abcdefg1", false},
		{"Ab1@", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsStrongPassword(c.password), c.password)
	}
}

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"omitempty,oneof=hr employee"`
	Joined   string `json:"date_of_joining" validate:"required,date"`
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	err := Struct(sampleRequest{Email: "bad", Password: "weak", Role: "admin", Joined: "2024/01/01"})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Equal(t, "must be a valid email", m["email"])
	assert.Contains(t, m["password"], "at least 8 characters")
	assert.Equal(t, "must be one of: hr employee", m["role"])
	assert.Equal(t, "must be in YYYY-MM-DD format", m["date_of_joining"])
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sampleRequest{Email: "a@b.co", Password: "Abcdef1@", Joined: "2024-01-01"})
	assert.NoError(t, err)
}

func TestValidationErrors_Err(t *testing.T) {
	var v ValidationErrors
	assert.NoError(t, v.Err())
	v.Add("name", "is required")
	assert.EqualError(t, v.Err(), "name: is required")
}
