package common

import "github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies defaults and records out-of-range values on errs.
func (p *Pagination) Normalize(errs *validator.ValidationErrors) {
	if p.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PageInfo is returned alongside every paginated list.
type PageInfo struct {
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPageInfo(p Pagination, total int64) PageInfo {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return PageInfo{TotalCount: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

// DateRange is an inclusive YYYY-MM-DD filter.
type DateRange struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// Validate checks formats and order and records problems on errs.
func (d DateRange) Validate(errs *validator.ValidationErrors) {
	var start, end string
	if d.StartDate != nil && *d.StartDate != "" {
		if _, ok := validator.IsValidDate(*d.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		} else {
			start = *d.StartDate
		}
	}
	if d.EndDate != nil && *d.EndDate != "" {
		if _, ok := validator.IsValidDate(*d.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else {
			end = *d.EndDate
		}
	}
	if start != "" && end != "" && end < start {
		errs.Add("end_date", "end_date must not be before start_date")
	}
}
