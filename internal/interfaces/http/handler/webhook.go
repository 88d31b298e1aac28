package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/pos/backend/internal/application/integration"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/logger"
)

// WebhookHandler is the intake for marketplace webhooks. Handled events and
// deliberate drops both acknowledge with {ok:true}; a non-2xx escapes only
// when nothing was committed and the provider should redeliver.
type WebhookHandler struct {
	BaseHandler
	router *appintegration.WebhookRouter
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(router *appintegration.WebhookRouter) *WebhookHandler {
	return &WebhookHandler{router: router}
}

// Receive handles POST /webhooks/:provider
func (h *WebhookHandler) Receive(c *gin.Context) {
	code := integration.ProviderCode(c.Param("provider")).Normalize()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}

	ctx, _ := logger.WithProviderCode(c.Request.Context(), logger.FromContext(c.Request.Context()), code.String())
	if err := h.router.Route(ctx, code, body); err != nil {
		logger.FromContext(ctx).Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
