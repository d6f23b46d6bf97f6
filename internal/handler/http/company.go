package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	UploadLogo(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService company.CompanyService
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	companyResponse, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", companyResponse)
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := company.CompanyFilter{
		Search:     q.str("search"),
		Pagination: q.pagination(),
	}
	if v := q.str("is_active"); v != nil {
		active := *v == "true"
		filter.IsActive = &active
	}
	if err := q.err(filter.Validate); err != nil {
		response.HandleError(w, err)
		return
	}

	companies, err := c.companyService.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list companies", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, companies)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	companyResponse, err := c.companyService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, companyResponse)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateCompanyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	companyResponse, err := c.companyService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Failed to update company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", companyResponse)
}

// Delete implements CompanyHandler.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.companyService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		slog.Error("Failed to delete company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company deleted successfully", nil)
}

// UploadLogo implements CompanyHandler.
func (c *CompanyHandlerImpl) UploadLogo(w http.ResponseWriter, r *http.Request) {
	file, contentType, err := formImage(w, r, "logo")
	if err != nil {
		slog.Error("Failed to read logo upload", "error", err)
		response.BadRequest(w, "Field 'logo' must be an image file", nil)
		return
	}
	defer file.Close()

	companyResponse, err := c.companyService.UploadLogo(r.Context(), chi.URLParam(r, "id"), file, contentType)
	if err != nil {
		slog.Error("Failed to upload company logo", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logo uploaded successfully", companyResponse)
}

func NewCompanyHandler(companyService company.CompanyService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService: companyService,
	}
}
