package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	MyLeaves(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Balance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

func leaveFilter(q *query) leave.LeaveFilter {
	return leave.LeaveFilter{
		EmployeeID: q.str("employee_id"),
		Department: q.str("department"),
		LeaveType:  q.str("leave_type"),
		Status:     q.str("status"),
		DateRange:  q.dateRange(),
		Pagination: q.pagination(),
	}
}

// Apply implements LeaveHandler.
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyLeaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Apply leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	application, err := h.leaveService.Apply(r.Context(), req)
	if err != nil {
		slog.Error("Apply leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave application submitted successfully", application)
}

// MyLeaves implements LeaveHandler.
func (h *leaveHandlerImpl) MyLeaves(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := leaveFilter(q)
	filter.EmployeeID = nil
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	leaves, err := h.leaveService.MyLeaves(r.Context(), filter)
	if err != nil {
		slog.Error("MyLeaves service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaves)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := leaveFilter(q)
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	leaves, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List leaves service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaves)
}

// GetByID implements LeaveHandler.
func (h *leaveHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	application, err := h.leaveService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, application)
}

// Review implements LeaveHandler.
func (h *leaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req leave.ReviewLeaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Review leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	application, err := h.leaveService.Review(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Review leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application "+application.Status, application)
}

// Update implements LeaveHandler.
func (h *leaveHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Update leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	application, err := h.leaveService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Update leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application updated successfully", application)
}

// Cancel implements LeaveHandler.
func (h *leaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	application, err := h.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("Cancel leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application cancelled", application)
}

// Delete implements LeaveHandler.
func (h *leaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application deleted successfully", nil)
}

// Stats implements LeaveHandler.
func (h *leaveHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := leave.StatsFilter{
		Department: q.str("department"),
		DateRange:  q.dateRange(),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.leaveService.Stats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Balance implements LeaveHandler. Without an employeeID route parameter the caller's balance is returned.
func (h *leaveHandlerImpl) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.leaveService.Balance(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}
