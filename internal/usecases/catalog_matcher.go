package usecases

import (
	"strings"

	"project_lojabot/internal/entities"
)

// MatchCatalog returns the catalog names whose lower-cased form is one of the keywords.
// Products come before services and each group keeps catalog order.
func MatchCatalog(keywords []string, snap entities.CatalogSnapshot) []string {
	wanted := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		wanted[strings.ToLower(k)] = struct{}{}
	}

	matched := []string{}
	collect := func(names []string) {
		for _, name := range names {
			if _, ok := wanted[strings.ToLower(name)]; ok {
				matched = append(matched, name)
			}
		}
	}
	if snap.Kind.HasProducts() {
		collect(snap.Products)
	}
	if snap.Kind.HasServices() {
		collect(snap.Services)
	}
	return matched
}

// FormatCatalogReply renders matched names under an "Available <category>:" header.
func FormatCatalogReply(kind entities.CompanyKind, items []string) string {
	category := string(kind)
	if kind == entities.KindProductsAndServices {
		category = "products and services"
	}

	var sb strings.Builder
	sb.WriteString("Available " + category + ":")
	for _, item := range items {
		sb.WriteString("\n- " + item)
	}
	return sb.String()
}
