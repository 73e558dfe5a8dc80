package usecases

import (
	"context"

	"github.com/rotisserie/eris"

	"project_lojabot/internal/entities"
	"project_lojabot/internal/repository"
)

var (
	ErrInvalidKind     = eris.New("usecases: invalid company kind")
	ErrCompanyNotFound = eris.New("usecases: company not found")
	ErrCompanyExists   = repository.ErrCompanyExists
)

// CatalogUsecase manages the company, its products and its services.
type CatalogUsecase struct {
	repo repository.CompanyRepository
}

func NewCatalogUsecase(repo repository.CompanyRepository) *CatalogUsecase {
	return &CatalogUsecase{repo: repo}
}

// CreateCompany normalizes the kind, legacy Portuguese values included, and stores
// the company with any nested items. Only one company may exist.
func (u *CatalogUsecase) CreateCompany(ctx context.Context, c *entities.Company) error {
	kind, ok := entities.ParseCompanyKind(string(c.Kind))
	if !ok {
		return eris.Wrapf(ErrInvalidKind, "usecases: kind %q", c.Kind)
	}
	c.Kind = kind
	return u.repo.CreateCompany(ctx, c)
}

func (u *CatalogUsecase) GetCompany(ctx context.Context) (*entities.Company, error) {
	c, err := u.repo.GetCompany(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCompanyNotFound
	}
	return c, nil
}

func (u *CatalogUsecase) CreateProduct(ctx context.Context, p *entities.Product) error {
	return u.repo.CreateProduct(ctx, p)
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]entities.Product, error) {
	return u.repo.ListProducts(ctx)
}

func (u *CatalogUsecase) CreateService(ctx context.Context, s *entities.Service) error {
	return u.repo.CreateService(ctx, s)
}

func (u *CatalogUsecase) ListServices(ctx context.Context) ([]entities.Service, error) {
	return u.repo.ListServices(ctx)
}
