package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	MarkAbsent(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// Today implements AttendanceHandler. data is null when the caller has not checked in.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if record == nil {
		response.SuccessWithMessage(w, "No attendance recorded today", nil)
		return
	}
	response.Success(w, record)
}

func myAttendanceFilter(q *query) attendance.MyAttendanceFilter {
	return attendance.MyAttendanceFilter{
		Status:     q.str("status"),
		DateRange:  q.dateRange(),
		Pagination: q.pagination(),
	}
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := myAttendanceFilter(q)
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	history, err := h.attendanceService.MyHistory(r.Context(), filter)
	if err != nil {
		slog.Error("MyHistory service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := attendance.AttendanceFilter{
		EmployeeID: q.str("employee_id"),
		Department: q.str("department"),
		Status:     q.str("status"),
		DateRange:  q.dateRange(),
		Pagination: q.pagination(),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// ListByEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := myAttendanceFilter(q)
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// GetByID implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// MarkAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) MarkAbsent(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAbsentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("MarkAbsent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.MarkAbsent(r.Context(), req)
	if err != nil {
		slog.Error("MarkAbsent service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absent employees marked", result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Update attendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.attendanceService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Update attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", record)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := attendance.StatsFilter{
		Department: q.str("department"),
		DateRange:  q.dateRange(),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.attendanceService.Stats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
