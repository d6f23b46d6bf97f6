package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	OnboardEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	UploadAvatar(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// OnboardEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) OnboardEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.OnboardEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("OnboardEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	onboarded, err := h.employeeService.Onboard(r.Context(), req)
	if err != nil {
		slog.Error("Failed to onboard employee", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee onboarded successfully", onboarded)
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := employee.EmployeeFilter{
		CompanyID:      q.str("company_id"),
		Search:         q.str("search"),
		Department:     q.str("department"),
		Designation:    q.str("designation"),
		EmploymentType: q.str("employment_type"),
		Status:         q.str("status"),
		Pagination:     q.pagination(),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	employees, err := h.employeeService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list employees", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, employees)
}

// GetEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employeeService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// GetMe implements EmployeeHandler.
func (h *employeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	emp, err := h.employeeService.GetMe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

// UpdateEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	emp, err := h.employeeService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Failed to update employee", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", emp)
}

// DeleteEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.employeeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Failed to delete employee", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deactivated successfully", nil)
}

// UploadAvatar implements EmployeeHandler.
func (h *employeeHandlerImpl) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, contentType, err := formImage(w, r, "avatar")
	if err != nil {
		slog.Error("Failed to read avatar upload", "error", err)
		response.BadRequest(w, "Field 'avatar' must be an image file", nil)
		return
	}
	defer file.Close()

	emp, err := h.employeeService.UploadAvatar(r.Context(), chi.URLParam(r, "id"), file, contentType)
	if err != nil {
		slog.Error("Failed to upload avatar", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Avatar uploaded successfully", emp)
}

// Stats implements EmployeeHandler.
func (h *employeeHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.employeeService.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
