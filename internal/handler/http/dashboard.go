package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// Employee returns the caller's own dashboard
	Employee(w http.ResponseWriter, r *http.Request)
	// Admin returns the company-wide overview
	Admin(w http.ResponseWriter, r *http.Request)
	AttendanceTrends(w http.ResponseWriter, r *http.Request)
	LeaveTrends(w http.ResponseWriter, r *http.Request)
	QuickStats(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Employee handles GET /dashboard/employee
func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.Employee(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Admin handles GET /dashboard/admin
func (h *dashboardHandlerImpl) Admin(w http.ResponseWriter, r *http.Request) {
	filter := dashboard.AdminFilter{Department: newQuery(r).str("department")}

	result, err := h.dashboardService.Admin(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AttendanceTrends handles GET /dashboard/attendance-trends
func (h *dashboardHandlerImpl) AttendanceTrends(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := dashboard.TrendFilter{
		Days:       q.num("days"),
		Department: q.str("department"),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.AttendanceTrends(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// LeaveTrends handles GET /dashboard/leave-trends
func (h *dashboardHandlerImpl) LeaveTrends(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := dashboard.LeaveTrendFilter{
		Year:       q.num("year"),
		Department: q.str("department"),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.LeaveTrends(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// QuickStats handles GET /dashboard/quick-stats
func (h *dashboardHandlerImpl) QuickStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.QuickStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Analytics handles GET /dashboard/analytics
func (h *dashboardHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	filter := dashboard.AnalyticsFilter{Department: newQuery(r).str("department")}

	result, err := h.dashboardService.Analytics(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
