package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"project_lojabot/internal/entities"
	"project_lojabot/internal/usecases"
)

// ProcessingFailedDetail is the only detail a client sees when a chat turn fails.
const ProcessingFailedDetail = "Erro ao processar a mensagem com IA."

// ChatReplier resolves one inbound message.
type ChatReplier interface {
	Reply(ctx context.Context, message string) (entities.Response, error)
}

// TokenStatusChecker reports provider account usage.
type TokenStatusChecker interface {
	Check(ctx context.Context, provider string) map[string]any
}

type Handler struct {
	chat    ChatReplier
	catalog *usecases.CatalogUsecase
	tokens  TokenStatusChecker
	logger  *zap.Logger
}

func NewHandler(chat ChatReplier, catalog *usecases.CatalogUsecase, tokens TokenStatusChecker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{chat: chat, catalog: catalog, tokens: tokens, logger: logger}
}

func SetupRoutes(r *gin.Engine, h *Handler, middleware *Middleware, maxBodyBytes int64) {
	r.Use(middleware.RequestLogger())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(maxBodyBytes))
	r.Use(middleware.CORSMiddleware())

	r.POST("/chat", h.HandleChat)

	r.POST("/company", h.CreateCompany)
	r.GET("/company", h.GetCompany)
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.POST("/services", h.CreateService)
	r.GET("/services", h.ListServices)

	r.GET("/check_token_status", h.CheckTokenStatus)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *Handler) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The message is validated in sanitized form but resolved, and cached, as received.
	if !ValidateLength(SanitizeString(req.Message), 1, MaxMessageLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must have between 1 and 10000 bytes"})
		return
	}

	resp, err := h.chat.Reply(c.Request.Context(), req.Message)
	if err != nil {
		if !eris.Is(err, usecases.ErrProcessingFailed) {
			h.logger.Error("chat: unexpected failure", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": ProcessingFailedDetail})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": resp.Content})
}

func (h *Handler) CheckTokenStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.tokens.Check(c.Request.Context(), c.Query("provider")))
}
