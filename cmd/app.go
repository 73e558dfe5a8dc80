package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"project_lojabot/internal/infrastructure"
	"project_lojabot/internal/infrastructure/ai"
	"project_lojabot/internal/interfaces"
	"project_lojabot/internal/nlp"
	"project_lojabot/internal/repository"
	"project_lojabot/internal/usecases"
)

// storeEnv is the catalog database selected by config.
type storeEnv struct {
	Repo     repository.CompanyRepository
	Migrator repository.Migrator
	// Fresh is true when the schema may not exist yet.
	Fresh bool
	close func()
}

func (s *storeEnv) Close() {
	if s.close != nil {
		s.close()
	}
}

func initStore(ctx context.Context) (*storeEnv, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := infrastructure.NewPostgresClient(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("store: postgres connected")
		// The Postgres DDL is idempotent, so it is always safe to run.
		return &storeEnv{
			Repo:     repository.NewPostgresCompanyRepository(pg.Pool),
			Migrator: pg,
			Fresh:    true,
			close:    pg.Close,
		}, nil
	case "sqlite", "":
		fresh := !infrastructure.SQLiteExists(cfg.Store.SQLitePath)
		db, err := infrastructure.NewSQLiteClient(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("store: sqlite opened", zap.String("path", cfg.Store.SQLitePath), zap.Bool("fresh", fresh))
		return &storeEnv{
			Repo:     repository.NewSQLiteCompanyRepository(db.DB),
			Migrator: db,
			Fresh:    fresh,
			close:    func() { _ = db.Close() },
		}, nil
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
}

func bootstrap(ctx context.Context, st *storeEnv) error {
	return repository.Bootstrap(ctx, st.Migrator, st.Repo, repository.BootstrapOptions{
		Environment: cfg.Environment,
		SeedFile:    cfg.Store.SeedFile,
		Fresh:       st.Fresh,
	}, logger)
}

// initCache returns the configured response cache and a function releasing it.
// An unreachable Redis is logged and kept: lookups degrade to misses until it comes back.
func initCache(ctx context.Context) (interfaces.ResponseCache, func(), error) {
	switch cfg.Cache.Driver {
	case "memory":
		return infrastructure.NewMemoryCache(), func() {}, nil
	case "redis", "":
		client := infrastructure.NewRedisClient(infrastructure.RedisOptions{
			Host:     cfg.Cache.Host,
			Port:     cfg.Cache.Port,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		cache := infrastructure.NewRedisCache(client, cfg.Cache.Prefix, logger)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("cache: redis unreachable, responses will not be cached until it is", zap.Error(err))
		}
		return cache, func() { _ = cache.Close() }, nil
	}
	return nil, nil, eris.Errorf("cache: unknown driver %q", cfg.Cache.Driver)
}

func initChat(ctx context.Context, catalog interfaces.CatalogSource, cache interfaces.ResponseCache) (*usecases.ChatService, error) {
	model, err := nlp.LoadModel(cfg.NLP.LexiconPath)
	if err != nil {
		return nil, err
	}
	provider, name, err := ai.New(ctx, cfg.AI, logger)
	if err != nil {
		return nil, err
	}
	return usecases.NewChatService(usecases.ChatDeps{
		Cache:        cache,
		Catalog:      catalog,
		Extractor:    nlp.NewExtractor(model),
		Provider:     provider,
		ProviderName: name,
		FAQ:          cfg.FAQ,
		Timeout:      time.Duration(cfg.AI.RequestTimeout) * time.Second,
		Logger:       logger.Named("chat"),
	}), nil
}

func initTokenStatus() *usecases.TokenStatusChecker {
	return usecases.NewTokenStatusChecker(usecases.TokenStatusConfig{
		OpenAIKey:   cfg.AI.OpenAI.APIKey,
		DeepSeekKey: cfg.AI.DeepSeek.APIKey,
		OpenAIURL:   cfg.AI.Status.OpenAIURL,
		DeepSeekURL: cfg.AI.Status.DeepSeekURL,
	}, nil, logger.Named("token_status"))
}
