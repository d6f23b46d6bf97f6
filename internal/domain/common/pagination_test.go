package common

import (
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestPagination_Normalize(t *testing.T) {
	var errs validator.ValidationErrors
	p := Pagination{}
	p.Normalize(&errs)
	assert.Empty(t, errs)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	p = Pagination{Page: 3, Limit: 10}
	p.Normalize(&errs)
	assert.Equal(t, 20, p.Offset())

	p = Pagination{Page: -1, Limit: 500}
	p.Normalize(&errs)
	assert.Len(t, errs, 2)
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(Pagination{Page: 2, Limit: 20}, 41)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(41), info.TotalCount)

	assert.Equal(t, 0, NewPageInfo(Pagination{Page: 1, Limit: 20}, 0).TotalPages)
}

func TestDateRange_Validate(t *testing.T) {
	s, e := "2024-03-05", "2024-03-01"
	var errs validator.ValidationErrors
	DateRange{StartDate: &s, EndDate: &e}.Validate(&errs)
	assert.Equal(t, "end_date must not be before start_date", errs.ToMap()["end_date"])

	bad := "03/01/2024"
	errs = nil
	DateRange{StartDate: &bad}.Validate(&errs)
	assert.Contains(t, errs.ToMap(), "start_date")
}
