package handler

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the order ledger routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/items", h.AddItem)
		orders.DELETE("/:id/items/:itemId", h.RemoveItem)
		orders.POST("/:id/items/:itemId/modifiers", h.AddModifier)
		orders.POST("/:id/discounts", h.ApplyDiscount)
		orders.DELETE("/:id/discounts/:discountId", h.RemoveDiscount)
		orders.POST("/:id/payments", h.RecordPayment)
		orders.POST("/:id/payments/:paymentId/void", h.VoidPayment)
		orders.PUT("/:id/charges", h.SetCharges)
		orders.PUT("/:id/tax-exempt", h.SetTaxExempt)
		orders.POST("/:id/send", h.Send)
		orders.POST("/:id/hold", h.Hold)
		orders.POST("/:id/void", h.Void)
	}
}

// RegisterRoutes registers provider and store management routes
func (h *ProviderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	providers := rg.Group("/integration/providers")
	{
		providers.POST("", h.CreateProvider)
		providers.GET("", h.ListProviders)
		providers.GET("/:id", h.GetProvider)
		providers.PATCH("/:id", h.UpdateProvider)
		providers.DELETE("/:id", h.DeleteProvider)
		providers.GET("/:id/stores", h.ListStores)
	}

	stores := rg.Group("/integration/stores")
	{
		stores.POST("", h.CreateStore)
		stores.GET("/:id", h.GetStore)
		stores.PATCH("/:id", h.UpdateStore)
		stores.DELETE("/:id", h.DeleteStore)
		stores.POST("/:id/menu/push", h.PushMenu)
		stores.GET("/:id/settings", h.GetStoreSettings)
		stores.PATCH("/:id/settings", h.UpdateStoreSettings)
	}
}

// RegisterRoutes registers the webhook intake route
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/:provider", h.Receive)
}
