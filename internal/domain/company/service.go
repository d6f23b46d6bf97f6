package company

import (
	"context"
	"io"
)

type CompanyService interface {
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	List(ctx context.Context, filter CompanyFilter) (ListCompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id string, file io.Reader, contentType string) (CompanyResponse, error)
}
