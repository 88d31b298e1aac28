package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appordering "github.com/pos/backend/internal/application/ordering"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// OrderHandler exposes the order ledger over HTTP. Every mutation returns
// the full recomputed order.
type OrderHandler struct {
	BaseHandler
	service *appordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service *appordering.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// parseOrderID reads and validates the :id path parameter
func (h *OrderHandler) parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}

// parseDecimal parses a decimal field, rejecting garbage with a 400
func (h *OrderHandler) parseDecimal(c *gin.Context, field, value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		h.BadRequest(c, "Invalid "+field)
		return decimal.Zero, false
	}
	return d, true
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), ordering.OrderType(req.OrderType), req.CustomerName, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToOrderResponse(order))
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	quantity, ok := h.parseDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}

	order, err := h.service.AddItem(c.Request.Context(), orderID, uuid.MustParse(req.MenuItemID), quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// RemoveItem handles DELETE /orders/:id/items/:itemId
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	order, err := h.service.RemoveItem(c.Request.Context(), orderID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// AddModifier handles POST /orders/:id/items/:itemId/modifiers
func (h *OrderHandler) AddModifier(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req AddModifierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	price, ok := h.parseDecimal(c, "price", req.Price)
	if !ok {
		return
	}
	quantity := decimal.NewFromInt(1)
	if req.Quantity != "" {
		if quantity, ok = h.parseDecimal(c, "quantity", req.Quantity); !ok {
			return
		}
	}
	var modifierID *uuid.UUID
	if req.ModifierID != nil {
		id := uuid.MustParse(*req.ModifierID)
		modifierID = &id
	}

	order, err := h.service.AddModifier(c.Request.Context(), orderID, itemID, modifierID, req.Name, price, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// ApplyDiscount handles POST /orders/:id/discounts
func (h *OrderHandler) ApplyDiscount(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.DiscountID == nil && req.OverrideAmount == nil {
		h.BadRequest(c, "Either discount_id or override_amount is required")
		return
	}

	var discountID *uuid.UUID
	if req.DiscountID != nil {
		id := uuid.MustParse(*req.DiscountID)
		discountID = &id
	}
	var override *decimal.Decimal
	if req.OverrideAmount != nil {
		amount, ok := h.parseDecimal(c, "override_amount", *req.OverrideAmount)
		if !ok {
			return
		}
		override = &amount
	}

	order, err := h.service.ApplyDiscount(c.Request.Context(), orderID, discountID, override)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// RemoveDiscount handles DELETE /orders/:id/discounts/:discountId
func (h *OrderHandler) RemoveDiscount(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	discountID, err := uuid.Parse(c.Param("discountId"))
	if err != nil {
		h.BadRequest(c, "Invalid discount ID")
		return
	}

	order, err := h.service.RemoveDiscount(c.Request.Context(), orderID, discountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// RecordPayment handles POST /orders/:id/payments
func (h *OrderHandler) RecordPayment(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	amount, ok := h.parseDecimal(c, "amount", req.Amount)
	if !ok {
		return
	}

	order, err := h.service.RecordPayment(c.Request.Context(), orderID, amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// VoidPayment handles POST /orders/:id/payments/:paymentId/void
func (h *OrderHandler) VoidPayment(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}
	paymentID, err := uuid.Parse(c.Param("paymentId"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	order, err := h.service.VoidPayment(c.Request.Context(), orderID, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// SetCharges handles PUT /orders/:id/charges
func (h *OrderHandler) SetCharges(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req SetChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	serviceCharge, ok := h.parseDecimal(c, "service_charge", req.ServiceCharge)
	if !ok {
		return
	}
	deliveryCharge, ok := h.parseDecimal(c, "delivery_charge", req.DeliveryCharge)
	if !ok {
		return
	}

	order, err := h.service.SetCharges(c.Request.Context(), orderID, serviceCharge, deliveryCharge)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// SetTaxExempt handles PUT /orders/:id/tax-exempt
func (h *OrderHandler) SetTaxExempt(c *gin.Context) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	var req SetTaxExemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.SetTaxExempt(c.Request.Context(), orderID, *req.TaxExempt)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}

// Send handles POST /orders/:id/send
func (h *OrderHandler) Send(c *gin.Context) {
	h.statusVerb(c, h.service.SendOrder)
}

// Hold handles POST /orders/:id/hold
func (h *OrderHandler) Hold(c *gin.Context) {
	h.statusVerb(c, h.service.HoldOrder)
}

// Void handles POST /orders/:id/void
func (h *OrderHandler) Void(c *gin.Context) {
	h.statusVerb(c, h.service.VoidOrder)
}

func (h *OrderHandler) statusVerb(c *gin.Context, verb func(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error)) {
	orderID, ok := h.parseOrderID(c)
	if !ok {
		return
	}

	order, err := verb(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToOrderResponse(order))
}
