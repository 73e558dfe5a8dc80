package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"project_lojabot/internal/entities"
	"project_lojabot/internal/usecases"
)

type itemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	CompanyID   int64   `json:"company_id" binding:"required"`
	Code        string  `json:"code"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" binding:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

type companyRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	CNPJ        string        `json:"cnpj"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	Kind        string        `json:"kind" binding:"required"`
	Products    []itemRequest `json:"products"`
	Services    []itemRequest `json:"services"`
}

func (r itemRequest) product() entities.Product {
	return entities.Product{
		CompanyID: r.CompanyID, Code: r.Code, Name: SanitizeString(r.Name), Description: SanitizeString(r.Description),
		Category: r.Category, Price: r.Price, Stock: r.Stock, ImageURL: r.ImageURL,
	}
}

func (r itemRequest) service() entities.Service {
	return entities.Service{
		CompanyID: r.CompanyID, Code: r.Code, Name: SanitizeString(r.Name), Description: SanitizeString(r.Description),
		Category: r.Category, Price: r.Price, ImageURL: r.ImageURL,
	}
}

// Company

func (h *Handler) CreateCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ValidateLength(req.Name, 1, MaxNameLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is too long"})
		return
	}

	company := &entities.Company{
		Name:        SanitizeString(req.Name),
		Description: SanitizeString(req.Description),
		CNPJ:        req.CNPJ,
		Phone:       req.Phone,
		Address:     SanitizeString(req.Address),
		Kind:        entities.CompanyKind(req.Kind),
	}
	// Nested items are attached to the new company, whatever company_id they carry.
	for _, p := range req.Products {
		company.Products = append(company.Products, p.product())
	}
	for _, s := range req.Services {
		company.Services = append(company.Services, s.service())
	}

	if err := h.catalog.CreateCompany(c.Request.Context(), company); err != nil {
		if eris.Is(err, usecases.ErrInvalidKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be one of products, services, products_and_services"})
			return
		}
		if eris.Is(err, usecases.ErrCompanyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "a company is already registered"})
			return
		}
		h.storeError(c, "create company", err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *Handler) GetCompany(c *gin.Context) {
	company, err := h.catalog.GetCompany(c.Request.Context())
	if eris.Is(err, usecases.ErrCompanyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}
	if err != nil {
		h.storeError(c, "get company", err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// Products

func (h *Handler) CreateProduct(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.product()
	if err := h.catalog.CreateProduct(c.Request.Context(), &p); err != nil {
		h.storeError(c, "create product", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.storeError(c, "list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Services

func (h *Handler) CreateService(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := req.service()
	if err := h.catalog.CreateService(c.Request.Context(), &s); err != nil {
		h.storeError(c, "create service", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		h.storeError(c, "list services", err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *Handler) storeError(c *gin.Context, action string, err error) {
	h.logger.Error("catalog: "+action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
}
