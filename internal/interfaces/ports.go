package interfaces

import (
	"context"

	"project_lojabot/internal/entities"
)

// AIProvider produces a free-text answer grounded in the supplied catalog names.
type AIProvider interface {
	Generate(ctx context.Context, products, services []string, message string) (string, error)
}

// ResponseCache stores final responses keyed by the exact message text.
// Implementations swallow backend errors: Get reports a miss, Put is a no-op.
type ResponseCache interface {
	Get(ctx context.Context, message string) (string, bool)
	Put(ctx context.Context, message, response string)
}

// CatalogSource loads the single company's catalog. A nil snapshot means no company.
type CatalogSource interface {
	CatalogSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error)
}

// KeywordExtractor reduces free text to candidate topic tokens.
type KeywordExtractor interface {
	Extract(message string) ([]string, error)
}
