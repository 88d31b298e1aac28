package handler

import (
	"time"

	"github.com/pos/backend/internal/domain/ordering"
)

// CreateOrderRequest is the payload for opening a new order
type CreateOrderRequest struct {
	OrderType    string `json:"order_type" binding:"required,oneof=DINE_IN TAKEOUT DELIVERY"`
	CustomerName string `json:"customer_name"`
	Notes        string `json:"notes"`
}

// AddItemRequest adds one line to an order
type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required,uuid"`
	Quantity   string `json:"quantity" binding:"required,decimalstr"`
}

// AddModifierRequest attaches a modifier to an order line
type AddModifierRequest struct {
	ModifierID *string `json:"modifier_id" binding:"omitempty,uuid"`
	Name       string  `json:"name" binding:"required"`
	Price      string  `json:"price" binding:"required,decimalstr"`
	Quantity   string  `json:"quantity" binding:"omitempty,decimalstr"`
}

// ApplyDiscountRequest applies a discount definition or an explicit override
type ApplyDiscountRequest struct {
	DiscountID     *string `json:"discount_id" binding:"omitempty,uuid"`
	OverrideAmount *string `json:"override_amount" binding:"omitempty,decimalstr"`
}

// RecordPaymentRequest records a captured payment
type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required,decimalstr"`
}

// SetChargesRequest updates service and delivery charges
type SetChargesRequest struct {
	ServiceCharge  string `json:"service_charge" binding:"required,decimalstr"`
	DeliveryCharge string `json:"delivery_charge" binding:"required,decimalstr"`
}

// SetTaxExemptRequest toggles tax exemption
type SetTaxExemptRequest struct {
	TaxExempt *bool `json:"tax_exempt" binding:"required"`
}

// OrderItemModifierResponse is one modifier on an order line
type OrderItemModifierResponse struct {
	ID         string  `json:"id"`
	ModifierID *string `json:"modifier_id,omitempty"`
	Name       string  `json:"name"`
	Price      string  `json:"price"`
	Quantity   string  `json:"quantity"`
}

// OrderItemResponse is one order line
type OrderItemResponse struct {
	ID         string                      `json:"id"`
	MenuItemID string                      `json:"menu_item_id"`
	Name       string                      `json:"name"`
	UnitPrice  string                      `json:"unit_price"`
	Quantity   string                      `json:"quantity"`
	TaxRate    string                      `json:"tax_rate"`
	Taxable    bool                        `json:"taxable"`
	Modifiers  []OrderItemModifierResponse `json:"modifiers"`
}

// OrderDiscountResponse is one applied discount
type OrderDiscountResponse struct {
	ID             string  `json:"id"`
	DiscountID     *string `json:"discount_id,omitempty"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Value          string  `json:"value"`
	OverrideAmount *string `json:"override_amount,omitempty"`
}

// PaymentResponse is one payment against an order
type PaymentResponse struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
	Status string `json:"status"`
	Voided bool   `json:"voided"`
}

// OrderResponse is the full order view returned by every order endpoint
type OrderResponse struct {
	ID             string                  `json:"id"`
	OrderType      string                  `json:"order_type"`
	Status         string                  `json:"status"`
	CustomerName   string                  `json:"customer_name,omitempty"`
	Notes          string                  `json:"notes,omitempty"`
	TaxExempt      bool                    `json:"tax_exempt"`
	ServiceCharge  string                  `json:"service_charge"`
	DeliveryCharge string                  `json:"delivery_charge"`
	Items          []OrderItemResponse     `json:"items"`
	Discounts      []OrderDiscountResponse `json:"discounts"`
	Payments       []PaymentResponse       `json:"payments"`
	Subtotal       string                  `json:"subtotal"`
	TaxTotal       string                  `json:"tax_total"`
	DiscountTotal  string                  `json:"discount_total"`
	Total          string                  `json:"total"`
	PaidTotal      string                  `json:"paid_total"`
	DueTotal       string                  `json:"due_total"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	resp := OrderResponse{
		ID:             order.ID.String(),
		OrderType:      order.OrderType.String(),
		Status:         order.Status.String(),
		CustomerName:   order.CustomerName,
		Notes:          order.Notes,
		TaxExempt:      order.TaxExempt,
		ServiceCharge:  order.ServiceCharge.StringFixed(2),
		DeliveryCharge: order.DeliveryCharge.StringFixed(2),
		Items:          make([]OrderItemResponse, len(order.Items)),
		Discounts:      make([]OrderDiscountResponse, len(order.Discounts)),
		Payments:       make([]PaymentResponse, len(order.Payments)),
		Subtotal:       order.Subtotal.StringFixed(2),
		TaxTotal:       order.TaxTotal.StringFixed(2),
		DiscountTotal:  order.DiscountTotal.StringFixed(2),
		Total:          order.Total.StringFixed(2),
		PaidTotal:      order.PaidTotal.StringFixed(2),
		DueTotal:       order.DueTotal.StringFixed(2),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}

	for i := range order.Items {
		item := &order.Items[i]
		itemResp := OrderItemResponse{
			ID:         item.ID.String(),
			MenuItemID: item.MenuItemID.String(),
			Name:       item.Name,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			Quantity:   item.Quantity.String(),
			TaxRate:    item.TaxRate.String(),
			Taxable:    item.Taxable,
			Modifiers:  make([]OrderItemModifierResponse, len(item.Modifiers)),
		}
		for j := range item.Modifiers {
			mod := &item.Modifiers[j]
			modResp := OrderItemModifierResponse{
				ID:       mod.ID.String(),
				Name:     mod.Name,
				Price:    mod.Price.StringFixed(2),
				Quantity: mod.Quantity.String(),
			}
			if mod.ModifierID != nil {
				id := mod.ModifierID.String()
				modResp.ModifierID = &id
			}
			itemResp.Modifiers[j] = modResp
		}
		resp.Items[i] = itemResp
	}

	for i := range order.Discounts {
		d := &order.Discounts[i]
		discountResp := OrderDiscountResponse{
			ID:    d.ID.String(),
			Name:  d.Name,
			Type:  d.Type,
			Value: d.Value.String(),
		}
		if d.DiscountID != nil {
			id := d.DiscountID.String()
			discountResp.DiscountID = &id
		}
		if d.OverrideAmount != nil {
			amount := d.OverrideAmount.StringFixed(2)
			discountResp.OverrideAmount = &amount
		}
		resp.Discounts[i] = discountResp
	}

	for i := range order.Payments {
		p := &order.Payments[i]
		resp.Payments[i] = PaymentResponse{
			ID:     p.ID.String(),
			Amount: p.Amount.StringFixed(2),
			Status: string(p.Status),
			Voided: p.Voided,
		}
	}

	return resp
}
