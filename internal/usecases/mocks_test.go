package usecases

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"project_lojabot/internal/entities"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*entities.CatalogSnapshot)
	return snap, args.Error(1)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Generate(ctx context.Context, products, services []string, message string) (string, error) {
	args := m.Called(ctx, products, services, message)
	return args.String(0), args.Error(1)
}

type stubExtractor struct {
	keywords []string
	err      error
}

func (s stubExtractor) Extract(string) ([]string, error) {
	return s.keywords, s.err
}

// blockingProvider holds every call until release is closed.
type blockingProvider struct {
	calls   atomic.Int32
	entered sync.Once
	started chan struct{}
	release chan struct{}
	reply   string
}

func newBlockingProvider(reply string) *blockingProvider {
	return &blockingProvider{started: make(chan struct{}), release: make(chan struct{}), reply: reply}
}

func (b *blockingProvider) Generate(ctx context.Context, _, _ []string, _ string) (string, error) {
	b.calls.Add(1)
	b.entered.Do(func() { close(b.started) })
	select {
	case <-b.release:
		return b.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*entities.CatalogSnapshot)
	return snap, args.Error(1)
}

func (m *mockCompanyRepo) CreateCompany(ctx context.Context, c *entities.Company) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCompanyRepo) GetCompany(ctx context.Context) (*entities.Company, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(*entities.Company)
	return c, args.Error(1)
}

func (m *mockCompanyRepo) CreateProduct(ctx context.Context, p *entities.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCompanyRepo) ListProducts(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]entities.Product)
	return p, args.Error(1)
}

func (m *mockCompanyRepo) CreateService(ctx context.Context, s *entities.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockCompanyRepo) ListServices(ctx context.Context) ([]entities.Service, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]entities.Service)
	return s, args.Error(1)
}

func (m *mockCompanyRepo) CountProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
