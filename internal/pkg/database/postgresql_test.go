package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "attendance_employee_date_key"}
	wrapped := fmt.Errorf("insert attendance: %w", dup)

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsUniqueViolation(wrapped, "attendance_employee_date_key"))
	assert.False(t, IsUniqueViolation(wrapped, "employees_employee_code_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
