package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"project_lojabot/internal/config"
	"project_lojabot/internal/entities"
	"project_lojabot/internal/interfaces"
	"project_lojabot/internal/metrics"
	"project_lojabot/internal/repository"
)

// ErrProcessingFailed means a turn produced no response at all.
var ErrProcessingFailed = eris.New("usecases: message processing failed")

// NoCompanyReply is returned, uncached, when there is no company to answer for.
const NoCompanyReply = "Desculpe, não entendi sua pergunta. Por favor, entre em contato com nosso suporte."

const defaultProviderTimeout = 60 * time.Second

const (
	StageCache     = "cache"
	StageFAQ       = "faq"
	StageNoCompany = "no_company"
	StageCatalog   = "catalog"
	StageAI        = "ai"
)

// ChatDeps wires the collaborators of a ChatService.
type ChatDeps struct {
	Cache        interfaces.ResponseCache
	Catalog      interfaces.CatalogSource
	Extractor    interfaces.KeywordExtractor
	Provider     interfaces.AIProvider
	ProviderName string
	FAQ          []config.FAQEntry
	// Timeout bounds one shared provider call. Zero means 60s.
	Timeout      time.Duration
	Logger       *zap.Logger
}

// ChatService resolves one inbound message to a single reply.
type ChatService struct {
	cache        interfaces.ResponseCache
	catalog      interfaces.CatalogSource
	extractor    interfaces.KeywordExtractor
	provider     interfaces.AIProvider
	providerName string
	faq          []config.FAQEntry
	timeout      time.Duration
	logger       *zap.Logger
	inflight     singleflight.Group
}

func NewChatService(deps ChatDeps) *ChatService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	faq := make([]config.FAQEntry, 0, len(deps.FAQ))
	for _, e := range deps.FAQ {
		if t := strings.TrimSpace(e.Trigger); t != "" {
			faq = append(faq, config.FAQEntry{Trigger: strings.ToLower(t), Answer: e.Answer})
		}
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &ChatService{
		cache:        deps.Cache,
		catalog:      deps.Catalog,
		extractor:    deps.Extractor,
		provider:     deps.Provider,
		providerName: deps.ProviderName,
		faq:          faq,
		timeout:      timeout,
		logger:       logger,
	}
}

// Reply runs the resolution chain:
// cache → FAQ → catalog fetch → keyword extraction → catalog match → AI provider.
func (s *ChatService) Reply(ctx context.Context, message string) (entities.Response, error) {
	resp, err := s.resolve(ctx, message)
	if err != nil {
		metrics.ChatFailures.Inc()
		return entities.Response{}, err
	}
	metrics.ChatResolutions.WithLabelValues(resp.Stage).Inc()
	s.logger.Debug("chat resolved", zap.String("stage", resp.Stage))
	return resp, nil
}

func (s *ChatService) resolve(ctx context.Context, message string) (entities.Response, error) {
	if cached, ok := s.cache.Get(ctx, message); ok {
		return entities.Response{Content: cached, Stage: StageCache}, nil
	}

	if answer, ok := s.matchFAQ(message); ok {
		s.cache.Put(ctx, message, answer)
		return entities.Response{Content: answer, Stage: StageFAQ}, nil
	}

	snap, err := s.catalog.CatalogSnapshot(ctx)
	if err != nil {
		if !eris.Is(err, repository.ErrStoreUnavailable) {
			return entities.Response{}, eris.Wrapf(ErrProcessingFailed, "usecases: fetch catalog: %v", err)
		}
		s.logger.Warn("catalog store unavailable", zap.Error(err))
		snap = nil
	}
	if snap == nil {
		return entities.Response{Content: NoCompanyReply, Stage: StageNoCompany}, nil
	}

	keywords, err := s.extractor.Extract(message)
	if err != nil {
		return entities.Response{}, eris.Wrapf(ErrProcessingFailed, "usecases: extract keywords: %v", err)
	}

	if matched := MatchCatalog(keywords, *snap); len(matched) > 0 {
		reply := FormatCatalogReply(snap.Kind, matched)
		s.cache.Put(ctx, message, reply)
		return entities.Response{Content: reply, Stage: StageCatalog}, nil
	}

	reply, err := s.askProvider(ctx, message)
	if err != nil {
		return entities.Response{}, err
	}
	return entities.Response{Content: reply, Stage: StageAI}, nil
}

func (s *ChatService) matchFAQ(message string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, e := range s.faq {
		if strings.Contains(lowered, e.Trigger) {
			return e.Answer, true
		}
	}
	return "", false
}

// askProvider re-reads the catalog and asks the AI provider. Identical concurrent
// misses share one provider call, which runs detached from any single caller and is
// bounded by the service timeout. Each caller stops waiting when its own ctx ends.
// The reply is cached even when it is an error text.
func (s *ChatService) askProvider(ctx context.Context, message string) (string, error) {
	ch := s.inflight.DoChan(message, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		products, services := []string{}, []string{}
		snap, err := s.catalog.CatalogSnapshot(flightCtx)
		switch {
		case err == nil && snap != nil:
			products, services = snap.Products, snap.Services
		case eris.Is(err, repository.ErrStoreUnavailable):
			s.logger.Warn("catalog re-read failed, asking provider with an empty catalog", zap.Error(err))
		case err != nil:
			return "", eris.Wrap(err, "usecases: re-read catalog")
		}

		start := time.Now()
		reply, err := s.provider.Generate(flightCtx, products, services, message)
		metrics.ProviderDuration.WithLabelValues(s.providerName).Observe(time.Since(start).Seconds())
		if err != nil {
			return "", err
		}
		s.cache.Put(flightCtx, message, reply)
		return reply, nil
	})

	select {
	case <-ctx.Done():
		return "", eris.Wrapf(ErrProcessingFailed, "usecases: waiting for ai reply: %v", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			s.logger.Error("ai provider failed", zap.String("provider", s.providerName), zap.Error(res.Err))
			return "", eris.Wrapf(ErrProcessingFailed, "usecases: ai provider %s: %v", s.providerName, res.Err)
		}
		if res.Shared {
			s.logger.Debug("ai reply shared with a concurrent request")
		}
		return res.Val.(string), nil
	}
}
