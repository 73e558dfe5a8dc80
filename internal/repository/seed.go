package repository

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"project_lojabot/internal/entities"
)

// Migrator creates the catalog schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

type BootstrapOptions struct {
	Environment string
	SeedFile    string
	// Fresh is true when the database did not exist before this start.
	Fresh bool
}

// Bootstrap prepares the database for the given environment:
//   - production: create the schema only on a fresh database, never seed
//   - development: create the schema and seed the default company if there are no products
//   - test: like development, but seed from SeedFile, falling back to the default company
func Bootstrap(ctx context.Context, m Migrator, repo CompanyRepository, opts BootstrapOptions, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Environment {
	case "production":
		if !opts.Fresh {
			logger.Info("bootstrap: existing database, skipping schema creation")
			return nil
		}
		return migrate(ctx, m, logger)
	case "test", "development":
	default:
		logger.Warn("bootstrap: unknown environment, creating schema only", zap.String("environment", opts.Environment))
		return migrate(ctx, m, logger)
	}

	if err := migrate(ctx, m, logger); err != nil {
		return err
	}

	n, err := repo.CountProducts(ctx)
	if err != nil {
		return eris.Wrap(err, "bootstrap: count products")
	}
	if n > 0 {
		logger.Info("bootstrap: catalog already populated", zap.Int("products", n))
		return nil
	}

	company := DefaultCompany()
	if opts.Environment == "test" {
		loaded, err := LoadCompanyFile(opts.SeedFile)
		if err != nil {
			logger.Warn("bootstrap: seed file unavailable, using default company", zap.String("path", opts.SeedFile), zap.Error(err))
		} else {
			company = loaded
		}
	}

	err = repo.CreateCompany(ctx, company)
	if eris.Is(err, ErrCompanyExists) {
		logger.Info("bootstrap: company exists without products, skipping seed")
		return nil
	}
	if err != nil {
		return eris.Wrap(err, "bootstrap: seed company")
	}
	logger.Info("bootstrap: catalog seeded",
		zap.String("company", company.Name),
		zap.Int("products", len(company.Products)),
		zap.Int("services", len(company.Services)))
	return nil
}

func migrate(ctx context.Context, m Migrator, logger *zap.Logger) error {
	if err := m.Migrate(ctx); err != nil {
		return eris.Wrap(err, "bootstrap: migrate")
	}
	logger.Info("bootstrap: schema ready")
	return nil
}

// DefaultCompany is the demo catalog used outside production.
func DefaultCompany() *entities.Company {
	return &entities.Company{
		Name:        "Loja Exemplo",
		Description: "Loja de exemplo para testar o sistema.",
		CNPJ:        "00.000.000/0001-00",
		Phone:       "(11) 0000-0000",
		Address:     "Rua Exemplo, 100, São Paulo, SP",
		Kind:        entities.KindProductsAndServices,
		Products: []entities.Product{
			{Code: "CAM123", Name: "Camiseta", Description: "Camiseta de algodão, confortável e durável.", Category: "Roupas", Price: 19.99, Stock: 50, ImageURL: "https://example.com/camiseta.jpg"},
			{Code: "NB456", Name: "Notebook", Description: "Notebook ultra-rápido, com 16GB de RAM.", Category: "Eletrônicos", Price: 149.99, Stock: 30, ImageURL: "https://example.com/notebook.jpg"},
			{Code: "CAN789", Name: "Caneca", Description: "Caneca térmica, mantém a bebida quente por horas.", Category: "Utilidades", Price: 9.99, Stock: 100, ImageURL: "https://example.com/caneca.jpg"},
		},
		Services: []entities.Service{
			{Code: "CONS001", Name: "Consultoria", Description: "Consultoria especializada em produtos de informática.", Category: "Consultoria", Price: 200.00, ImageURL: "https://example.com/consultoria.jpg"},
			{Code: "SUP002", Name: "Suporte Técnico", Description: "Suporte técnico para computadores e dispositivos móveis.", Category: "Suporte", Price: 150.00, ImageURL: "https://example.com/consultoria.jpg"},
		},
	}
}

// seedFile mirrors the dados_empresa.json layout, which uses Portuguese keys.
type seedFile struct {
	Empresa struct {
		Nome      string `json:"nome"`
		Descricao string `json:"descricao"`
		CNPJ      string `json:"cnpj"`
		Telefone  string `json:"telefone"`
		Endereco  string `json:"endereco"`
		Tipo      string `json:"tipo"`
		Produtos  []struct {
			Nome      string  `json:"nome"`
			Descricao string  `json:"descricao"`
			Preco     float64 `json:"preco"`
			Categoria string  `json:"categoria"`
			Estoque   int     `json:"estoque"`
			Imagem    string  `json:"imagem"`
			Codigo    string  `json:"codigo"`
		} `json:"produtos"`
		Servicos []struct {
			Nome      string  `json:"nome"`
			Descricao string  `json:"descricao"`
			Preco     float64 `json:"preco"`
			Categoria string  `json:"categoria"`
			Imagem    string  `json:"imagem"`
			Codigo    string  `json:"codigo"`
		} `json:"servicos"`
	} `json:"empresa"`
}

// LoadCompanyFile reads a company and its catalog from a dados_empresa.json style file.
func LoadCompanyFile(path string) (*entities.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "seed: read %s", path)
	}

	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "seed: decode %s", path)
	}

	e := f.Empresa
	if e.Nome == "" {
		return nil, eris.Errorf("seed: %s has no empresa.nome", path)
	}
	kind, ok := entities.ParseCompanyKind(e.Tipo)
	if !ok {
		return nil, eris.Errorf("seed: unknown company kind %q", e.Tipo)
	}

	c := &entities.Company{
		Name:        e.Nome,
		Description: e.Descricao,
		CNPJ:        e.CNPJ,
		Phone:       e.Telefone,
		Address:     e.Endereco,
		Kind:        kind,
	}
	for _, p := range e.Produtos {
		c.Products = append(c.Products, entities.Product{
			Code: p.Codigo, Name: p.Nome, Description: p.Descricao, Category: p.Categoria,
			Price: p.Preco, Stock: p.Estoque, ImageURL: p.Imagem,
		})
	}
	for _, s := range e.Servicos {
		c.Services = append(c.Services, entities.Service{
			Code: s.Codigo, Name: s.Nome, Description: s.Descricao, Category: s.Categoria,
			Price: s.Preco, ImageURL: s.Imagem,
		})
	}
	return c, nil
}
