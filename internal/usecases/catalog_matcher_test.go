package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"project_lojabot/internal/entities"
)

func TestMatchCatalog(t *testing.T) {
	products := []string{"Camiseta", "Notebook", "Caneca"}
	services := []string{"Consultoria", "Suporte Técnico"}

	tests := []struct {
		name     string
		kind     entities.CompanyKind
		keywords []string
		want     []string
	}{
		{"single product", entities.KindProductsAndServices, []string{"caneca"}, []string{"Caneca"}},
		{"case insensitive", entities.KindProducts, []string{"NOTEBOOK"}, []string{"Notebook"}},
		{"catalog order wins", entities.KindProducts, []string{"caneca", "camiseta"}, []string{"Camiseta", "Caneca"}},
		{"products before services", entities.KindProductsAndServices, []string{"consultoria", "notebook"}, []string{"Notebook", "Consultoria"}},
		{"services only ignores products", entities.KindServices, []string{"caneca", "consultoria"}, []string{"Consultoria"}},
		{"products only ignores services", entities.KindProducts, []string{"consultoria"}, []string{}},
		{"multi-word names need the whole name", entities.KindServices, []string{"suporte", "técnico"}, []string{}},
		{"no keywords", entities.KindProductsAndServices, nil, []string{}},
		{"unknown kind matches nothing", entities.CompanyKind("outro"), []string{"caneca"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := entities.CatalogSnapshot{Kind: tt.kind, Products: products, Services: services}
			assert.Equal(t, tt.want, MatchCatalog(tt.keywords, snap))
		})
	}
}

func TestFormatCatalogReply(t *testing.T) {
	assert.Equal(t, "Available products and services:\n- Caneca\n- Consultoria",
		FormatCatalogReply(entities.KindProductsAndServices, []string{"Caneca", "Consultoria"}))
	assert.Equal(t, "Available products:\n- Notebook",
		FormatCatalogReply(entities.KindProducts, []string{"Notebook"}))
	assert.Equal(t, "Available services:\n- Consultoria",
		FormatCatalogReply(entities.KindServices, []string{"Consultoria"}))
}
