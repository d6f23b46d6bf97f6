package company

import "context"

type CompanyRepository interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context, filter CompanyFilter) ([]Company, int64, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (Company, error)
	UpdateLogo(ctx context.Context, id string, logoURL string) error
	Delete(ctx context.Context, id string) error
	CountEmployees(ctx context.Context, id string) (int, error)
}
