package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	BulkCreate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	MyPayroll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	UpdatePaymentStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Payslip(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func payrollFilter(q *query) payroll.PayrollFilter {
	return payroll.PayrollFilter{
		EmployeeID:    q.str("employee_id"),
		Department:    q.str("department"),
		Month:         q.num("month"),
		Year:          q.num("year"),
		PaymentStatus: q.str("payment_status"),
		Pagination:    q.pagination(),
	}
}

// Create implements PayrollHandler.
func (h *payrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreatePayrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Create payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Create payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll created successfully", record)
}

// BulkCreate implements PayrollHandler. Failed entries are reported alongside the created count.
func (h *payrollHandlerImpl) BulkCreate(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkCreatePayrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("BulkCreate payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.BulkCreate(r.Context(), req)
	if err != nil {
		slog.Error("BulkCreate payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, fmt.Sprintf("Created %d payroll records", result.Created), result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := payrollFilter(q)
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// GetByID implements PayrollHandler.
func (h *payrollHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.payrollService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// MyPayroll implements PayrollHandler.
func (h *payrollHandlerImpl) MyPayroll(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := payrollFilter(q)
	filter.EmployeeID = nil
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.MyPayroll(r.Context(), filter)
	if err != nil {
		slog.Error("MyPayroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// ListByEmployee implements PayrollHandler.
func (h *payrollHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := payrollFilter(q)
	filter.EmployeeID = nil
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.payrollService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeID"), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Update implements PayrollHandler.
func (h *payrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Update payroll decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Update payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll updated successfully", record)
}

// UpdatePaymentStatus implements PayrollHandler.
func (h *payrollHandlerImpl) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePaymentStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("UpdatePaymentStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.payrollService.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("UpdatePaymentStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment status updated successfully", record)
}

// Delete implements PayrollHandler.
func (h *payrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete payroll service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll deleted successfully", nil)
}

// Payslip implements PayrollHandler.
func (h *payrollHandlerImpl) Payslip(w http.ResponseWriter, r *http.Request) {
	payslip, err := h.payrollService.Payslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip)
}

// Stats implements PayrollHandler.
func (h *payrollHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := payroll.StatsFilter{
		Department: q.str("department"),
		Month:      q.num("month"),
		Year:       q.num("year"),
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	stats, err := h.payrollService.Stats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
