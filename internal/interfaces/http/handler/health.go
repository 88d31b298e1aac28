package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/infrastructure/persistence"
)

// HealthHandler reports process and database liveness
type HealthHandler struct {
	db *persistence.Database
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "degraded",
				"database": "unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
