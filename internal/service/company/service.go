package company

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/service/file"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
	fileService file.FileService
}

func NewCompanyService(companyRepository company.CompanyRepository, fileService file.FileService) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
		fileService:       fileService,
	}
}

func authorize(ctx context.Context, action user.Action) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return user.Authorize(p, user.ResourceCompany, action, "")
}

// Create implements company.CompanyService.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := authorize(ctx, user.ActionCreate); err != nil {
		return company.CompanyResponse{}, err
	}

	created, err := c.CompanyRepository.Create(ctx, company.Company{
		Name:       req.Name,
		ShortName:  req.ShortName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		Website:    req.Website,
	})
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.Info("company created", "company_id", created.ID, "short_name", created.ShortName)
	return company.NewCompanyResponse(created), nil
}

// List implements company.CompanyService.
func (c *CompanyServiceImpl) List(ctx context.Context, filter company.CompanyFilter) (company.ListCompanyResponse, error) {
	if err := authorize(ctx, user.ActionRead); err != nil {
		return company.ListCompanyResponse{}, err
	}

	companies, total, err := c.CompanyRepository.List(ctx, filter)
	if err != nil {
		return company.ListCompanyResponse{}, fmt.Errorf("failed to list companies: %w", err)
	}

	resp := company.ListCompanyResponse{
		PageInfo:  common.NewPageInfo(filter.Pagination, total),
		Companies: make([]company.CompanyResponse, 0, len(companies)),
	}
	for _, found := range companies {
		resp.Companies = append(resp.Companies, company.NewCompanyResponse(found))
	}
	return resp, nil
}

// GetByID implements company.CompanyService.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	if err := authorize(ctx, user.ActionRead); err != nil {
		return company.CompanyResponse{}, err
	}

	found, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(found), nil
}

// Update implements company.CompanyService.
func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := authorize(ctx, user.ActionUpdate); err != nil {
		return company.CompanyResponse{}, err
	}

	updated, err := c.CompanyRepository.Update(ctx, id, req)
	if err != nil {
		return company.CompanyResponse{}, err
	}
	return company.NewCompanyResponse(updated), nil
}

// Delete implements company.CompanyService. A company still referenced by employees is kept.
func (c *CompanyServiceImpl) Delete(ctx context.Context, id string) error {
	if err := authorize(ctx, user.ActionDelete); err != nil {
		return err
	}

	count, err := c.CompanyRepository.CountEmployees(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count company employees: %w", err)
	}
	if count > 0 {
		return company.ErrCompanyHasEmployees
	}
	return c.CompanyRepository.Delete(ctx, id)
}

// UploadLogo implements company.CompanyService.
func (c *CompanyServiceImpl) UploadLogo(ctx context.Context, id string, logo io.Reader, contentType string) (company.CompanyResponse, error) {
	if err := authorize(ctx, user.ActionUpdate); err != nil {
		return company.CompanyResponse{}, err
	}

	existing, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		return company.CompanyResponse{}, err
	}

	obj, err := c.fileService.UploadCompanyLogo(ctx, existing.ID, logo, contentType)
	if err != nil {
		if errors.Is(err, file.ErrInvalidImage) {
			return company.CompanyResponse{}, company.ErrInvalidLogo
		}
		return company.CompanyResponse{}, err
	}

	if err := c.CompanyRepository.UpdateLogo(ctx, id, obj.URL); err != nil {
		return company.CompanyResponse{}, err
	}

	existing.LogoURL = &obj.URL
	return company.NewCompanyResponse(existing), nil
}
