package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rotisserie/eris"

	"project_lojabot/internal/entities"
)

// sqlExecer is satisfied by both *sql.DB and *sql.Tx.
type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type SQLiteCompanyRepository struct {
	db *sql.DB
}

func NewSQLiteCompanyRepository(db *sql.DB) *SQLiteCompanyRepository {
	return &SQLiteCompanyRepository{db: db}
}

func (r *SQLiteCompanyRepository) GetCompany(ctx context.Context) (*entities.Company, error) {
	var c entities.Company
	var kind string
	err := r.db.QueryRowContext(ctx, selectFirstCompany).
		Scan(&c.ID, &c.Name, &c.Description, &c.CNPJ, &c.Phone, &c.Address, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get company")
	}
	c.Kind = normalizeKind(kind)
	return &c, nil
}

func (r *SQLiteCompanyRepository) CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	snap, err := r.catalogSnapshot(ctx)
	return snap, markUnavailable(err, sqliteUnreachable)
}

func (r *SQLiteCompanyRepository) catalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	c, err := r.GetCompany(ctx)
	if err != nil || c == nil {
		return nil, err
	}

	products, err := r.names(ctx, `SELECT name FROM products WHERE company_id = ? ORDER BY id`, c.ID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list product names")
	}
	services, err := r.names(ctx, `SELECT name FROM services WHERE company_id = ? ORDER BY id`, c.ID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list service names")
	}

	return snapshotOf(c, products, services), nil
}

func (r *SQLiteCompanyRepository) names(ctx context.Context, query string, companyID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *SQLiteCompanyRepository) CreateCompany(ctx context.Context, c *entities.Company) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin create company")
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM companies)`).Scan(&exists); err != nil {
		return eris.Wrap(err, "sqlite: check company")
	}
	if exists {
		return ErrCompanyExists
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO companies (name, description, cnpj, phone, address, kind)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.CNPJ, c.Phone, c.Address, string(c.Kind))
	if err != nil {
		return eris.Wrap(err, "sqlite: insert company")
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return eris.Wrap(err, "sqlite: company id")
	}

	for i := range c.Products {
		c.Products[i].CompanyID = c.ID
		if err := insertProductSQLite(ctx, tx, &c.Products[i]); err != nil {
			return err
		}
	}
	for i := range c.Services {
		c.Services[i].CompanyID = c.ID
		if err := insertServiceSQLite(ctx, tx, &c.Services[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit create company")
	}
	return nil
}

func (r *SQLiteCompanyRepository) CreateProduct(ctx context.Context, p *entities.Product) error {
	return insertProductSQLite(ctx, r.db, p)
}

func (r *SQLiteCompanyRepository) CreateService(ctx context.Context, s *entities.Service) error {
	return insertServiceSQLite(ctx, r.db, s)
}

func insertProductSQLite(ctx context.Context, db sqlExecer, p *entities.Product) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO products (company_id, code, name, description, category, price, stock, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CompanyID, p.Code, p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert product %q", p.Name)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return eris.Wrap(err, "sqlite: product id")
	}
	return nil
}

func insertServiceSQLite(ctx context.Context, db sqlExecer, s *entities.Service) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO services (company_id, code, name, description, category, price, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.CompanyID, s.Code, s.Name, s.Description, s.Category, s.Price, s.ImageURL)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert service %q", s.Name)
	}
	if s.ID, err = res.LastInsertId(); err != nil {
		return eris.Wrap(err, "sqlite: service id")
	}
	return nil
}

func (r *SQLiteCompanyRepository) ListProducts(ctx context.Context) ([]entities.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, code, name, description, category, price, stock, image_url
		FROM products ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	products := []entities.Product{}
	for rows.Next() {
		var p entities.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate products")
	}
	return products, nil
}

func (r *SQLiteCompanyRepository) ListServices(ctx context.Context) ([]entities.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, company_id, code, name, description, category, price, image_url
		FROM services ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list services")
	}
	defer rows.Close()

	services := []entities.Service{}
	for rows.Next() {
		var s entities.Service
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Code, &s.Name, &s.Description, &s.Category, &s.Price, &s.ImageURL); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan service")
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate services")
	}
	return services, nil
}

func (r *SQLiteCompanyRepository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count products")
	}
	return n, nil
}
