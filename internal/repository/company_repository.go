package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"project_lojabot/internal/entities"
)

// CompanyRepository persists the company catalog. Only one company is expected per deployment;
// reads always pick the oldest one.
type CompanyRepository interface {
	// CatalogSnapshot returns nil, nil when no company exists. Errors caused by an unreachable
	// store wrap ErrStoreUnavailable.
	CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error)
	// CreateCompany inserts the company with any nested products and services atomically.
	// It returns ErrCompanyExists when a company is already stored.
	CreateCompany(ctx context.Context, c *entities.Company) error
	// GetCompany returns nil, nil when no company exists.
	GetCompany(ctx context.Context) (*entities.Company, error)
	CreateProduct(ctx context.Context, p *entities.Product) error
	ListProducts(ctx context.Context) ([]entities.Product, error)
	CreateService(ctx context.Context, s *entities.Service) error
	ListServices(ctx context.Context) ([]entities.Service, error)
	CountProducts(ctx context.Context) (int, error)
}

// Pool is the subset of *pgxpool.Pool used by PostgresCompanyRepository.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// pgQuerier is satisfied by both Pool and pgx.Tx.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresCompanyRepository struct {
	db Pool
}

func NewPostgresCompanyRepository(db Pool) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

const selectFirstCompany = `SELECT id, name, description, cnpj, phone, address, kind FROM companies ORDER BY id LIMIT 1`

func (r *PostgresCompanyRepository) GetCompany(ctx context.Context) (*entities.Company, error) {
	var c entities.Company
	var kind string
	err := r.db.QueryRow(ctx, selectFirstCompany).
		Scan(&c.ID, &c.Name, &c.Description, &c.CNPJ, &c.Phone, &c.Address, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get company")
	}
	c.Kind = normalizeKind(kind)
	return &c, nil
}

func (r *PostgresCompanyRepository) CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	snap, err := r.catalogSnapshot(ctx)
	return snap, markUnavailable(err, pgUnreachable)
}

func (r *PostgresCompanyRepository) catalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	c, err := r.GetCompany(ctx)
	if err != nil || c == nil {
		return nil, err
	}

	products, err := r.names(ctx, `SELECT name FROM products WHERE company_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list product names")
	}
	services, err := r.names(ctx, `SELECT name FROM services WHERE company_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list service names")
	}

	return snapshotOf(c, products, services), nil
}

func (r *PostgresCompanyRepository) names(ctx context.Context, query string, companyID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, c *entities.Company) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin create company")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serializes concurrent creators until commit.
	if _, err := tx.Exec(ctx, `LOCK TABLE companies IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return eris.Wrap(err, "postgres: lock companies")
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies)`).Scan(&exists); err != nil {
		return eris.Wrap(err, "postgres: check company")
	}
	if exists {
		return ErrCompanyExists
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO companies (name, description, cnpj, phone, address, kind)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		c.Name, c.Description, c.CNPJ, c.Phone, c.Address, string(c.Kind)).Scan(&c.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert company")
	}

	for i := range c.Products {
		c.Products[i].CompanyID = c.ID
		if err := insertProductPG(ctx, tx, &c.Products[i]); err != nil {
			return err
		}
	}
	for i := range c.Services {
		c.Services[i].CompanyID = c.ID
		if err := insertServicePG(ctx, tx, &c.Services[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit create company")
	}
	return nil
}

func (r *PostgresCompanyRepository) CreateProduct(ctx context.Context, p *entities.Product) error {
	return insertProductPG(ctx, r.db, p)
}

func (r *PostgresCompanyRepository) CreateService(ctx context.Context, s *entities.Service) error {
	return insertServicePG(ctx, r.db, s)
}

func insertProductPG(ctx context.Context, q pgQuerier, p *entities.Product) error {
	err := q.QueryRow(ctx, `
		INSERT INTO products (company_id, code, name, description, category, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.CompanyID, p.Code, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL).Scan(&p.ID)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert product %q", p.Name)
	}
	return nil
}

func insertServicePG(ctx context.Context, q pgQuerier, s *entities.Service) error {
	err := q.QueryRow(ctx, `
		INSERT INTO services (company_id, code, name, description, category, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		s.CompanyID, s.Code, s.Name, s.Description, s.Category, s.Price, s.ImageURL).Scan(&s.ID)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert service %q", s.Name)
	}
	return nil
}

func (r *PostgresCompanyRepository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, code, name, description, category, price, stock, image_url
		FROM products ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	products := []entities.Product{}
	for rows.Next() {
		var p entities.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate products")
	}
	return products, nil
}

func (r *PostgresCompanyRepository) ListServices(ctx context.Context) ([]entities.Service, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, company_id, code, name, description, category, price, image_url
		FROM services ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list services")
	}
	defer rows.Close()

	services := []entities.Service{}
	for rows.Next() {
		var s entities.Service
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Description, &s.Category, &s.Price, &s.ImageURL); err != nil {
			return nil, eris.Wrap(err, "postgres: scan service")
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate services")
	}
	return services, nil
}

func (r *PostgresCompanyRepository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: count products")
	}
	return n, nil
}

// normalizeKind maps legacy values to the canonical kind and keeps unknown ones verbatim.
func normalizeKind(raw string) entities.CompanyKind {
	if k, ok := entities.ParseCompanyKind(raw); ok {
		return k
	}
	return entities.CompanyKind(raw)
}

func snapshotOf(c *entities.Company, products, services []string) *entities.CatalogSnapshot {
	if products == nil {
		products = []string{}
	}
	if services == nil {
		services = []string{}
	}
	return &entities.CatalogSnapshot{
		Name:        c.Name,
		Description: c.Description,
		CNPJ:        c.CNPJ,
		Phone:       c.Phone,
		Address:     c.Address,
		Kind:        c.Kind,
		Products:    products,
		Services:    services,
	}
}
