package entities

import "strings"

// CompanyKind says whether a company sells products, services or both.
type CompanyKind string

const (
	KindProducts            CompanyKind = "products"
	KindServices            CompanyKind = "services"
	KindProductsAndServices CompanyKind = "products_and_services"
)

// ParseCompanyKind accepts the English values and the legacy Portuguese ones
// ("produtos", "servicos", "produtos_servicos").
func ParseCompanyKind(s string) (CompanyKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "products", "produtos":
		return KindProducts, true
	case "services", "servicos", "serviços":
		return KindServices, true
	case "products_and_services", "produtos_servicos", "produtos_serviços":
		return KindProductsAndServices, true
	}
	return "", false
}

// HasProducts reports whether product names take part in catalog lookups.
func (k CompanyKind) HasProducts() bool {
	return k == KindProducts || k == KindProductsAndServices
}

// HasServices reports whether service names take part in catalog lookups.
func (k CompanyKind) HasServices() bool {
	return k == KindServices || k == KindProductsAndServices
}

type Company struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CNPJ        string      `json:"cnpj"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	Kind        CompanyKind `json:"kind"`
	Products    []Product   `json:"products,omitempty"`
	Services    []Service   `json:"services,omitempty"`
}

type Product struct {
	ID          int64   `json:"id"`
	CompanyID   int64   `json:"company_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

type Service struct {
	ID          int64   `json:"id"`
	CompanyID   int64   `json:"company_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

// CatalogSnapshot is the read-only view of the single company used by a chat turn.
type CatalogSnapshot struct {
	Name        string
	Description string
	CNPJ        string
	Phone       string
	Address     string
	Kind        CompanyKind
	Products    []string
	Services    []string
}
