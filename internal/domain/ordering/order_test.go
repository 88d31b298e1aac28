package ordering

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/shared/valueobject"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func money(s string) valueobject.Money {
	return valueobject.NewMoneyUSD(dec(s))
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := NewOrder(OrderTypeDineIn)
	require.NoError(t, err)
	return order
}

func addTaxedItem(t *testing.T, order *Order, price, qty, taxRate string) *OrderItem {
	t.Helper()
	item, err := order.AddItem(uuid.New(), "Burger", money(price), dec(qty))
	require.NoError(t, err)
	item.SetTax(dec(taxRate), true)
	order.Recalculate()
	return item
}

func TestRecalculate_BumpsVersionAndTimestamp(t *testing.T) {
	order := newTestOrder(t)
	before := order.Version

	addTaxedItem(t, order, "10.00", "1", "0.08")

	assert.Greater(t, order.Version, before)
	assert.False(t, order.UpdatedAt.Before(order.CreatedAt))
}

func TestRecalculate_SubtotalTaxAndTotal(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0.08")

	assert.True(t, order.Subtotal.Equal(dec("100.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.TaxTotal.Equal(dec("8.00")), "tax %s", order.TaxTotal)
	assert.True(t, order.Total.Equal(dec("108.00")), "total %s", order.Total)
	assert.True(t, order.DueTotal.Equal(dec("108.00")), "due %s", order.DueTotal)
	assert.Equal(t, OrderStatusOpen, order.Status)
}

func TestRecalculate_ModifiersContributeToLineAndTax(t *testing.T) {
	order := newTestOrder(t)
	item := addTaxedItem(t, order, "10.00", "2", "0.10")

	_, err := item.AddModifier(nil, "Extra cheese", dec("1.50"), dec("2"))
	require.NoError(t, err)
	order.Recalculate()

	// line = 10*2 + 1.50*2 = 23.00, taxed at 10%
	assert.True(t, order.Subtotal.Equal(dec("23.00")), "subtotal %s", order.Subtotal)
	assert.True(t, order.TaxTotal.Equal(dec("2.30")), "tax %s", order.TaxTotal)
	assert.True(t, order.Total.Equal(dec("25.30")), "total %s", order.Total)
}

func TestRecalculate_TaxRoundsHalfUp(t *testing.T) {
	order := newTestOrder(t)
	// 10.05 * 0.075 = 0.75375 -> 0.75; 10.07 * 0.075 = 0.75525 -> 0.76
	addTaxedItem(t, order, "10.07", "1", "0.075")

	assert.True(t, order.TaxTotal.Equal(dec("0.76")), "tax %s", order.TaxTotal)
}

func TestRecalculate_TaxExemptSkipsTax(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0.08")
	require.NoError(t, order.SetTaxExempt(true))

	assert.True(t, order.TaxTotal.IsZero())
	assert.True(t, order.Total.Equal(dec("100.00")))
}

func TestRecalculate_InactiveTaxSnapshotSkipsTax(t *testing.T) {
	order := newTestOrder(t)
	item, err := order.AddItem(uuid.New(), "Soda", money("2.00"), dec("1"))
	require.NoError(t, err)
	item.SetTax(dec("0.08"), false)
	order.Recalculate()

	assert.True(t, order.TaxTotal.IsZero())
}

func TestApplyDiscount_PercentComputesFromSubtotal(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "50.00", "2", "0")

	require.NoError(t, order.ApplyDiscount(nil, "Happy hour", "PERCENT", dec("10"), nil))

	assert.True(t, order.DiscountTotal.Equal(dec("10.00")), "discount %s", order.DiscountTotal)
	assert.True(t, order.Total.Equal(dec("90.00")), "total %s", order.Total)
}

func TestApplyDiscount_OverrideWinsOverDefinition(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0")

	override := dec("5.00")
	require.NoError(t, order.ApplyDiscount(nil, "Comp", "PERCENT", dec("50"), &override))

	assert.True(t, order.DiscountTotal.Equal(dec("5.00")), "discount %s", order.DiscountTotal)
	assert.True(t, order.Total.Equal(dec("95.00")), "total %s", order.Total)
}

func TestApplyDiscount_FlatUsesValue(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "30.00", "1", "0")

	require.NoError(t, order.ApplyDiscount(nil, "Coupon", "FLAT", dec("4.00"), nil))

	assert.True(t, order.DiscountTotal.Equal(dec("4.00")))
	assert.True(t, order.Total.Equal(dec("26.00")))
}

func TestRecalculate_ChargesAddedAfterDiscountAndTax(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0.08")
	require.NoError(t, order.ApplyDiscount(nil, "Promo", "FLAT", dec("10.00"), nil))
	require.NoError(t, order.SetCharges(dec("3.00"), dec("5.00")))

	// 100 - 10 + 8 + 3 + 5
	assert.True(t, order.Total.Equal(dec("106.00")), "total %s", order.Total)
}

func TestRecordPayment_FullPaymentMarksPaid(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0.08")

	_, err := order.RecordPayment(money("108.00"))
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.True(t, order.DueTotal.IsZero())
}

func TestRecordPayment_PartialPaymentStaysOpen(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "100.00", "1", "0")

	_, err := order.RecordPayment(money("40.00"))
	require.NoError(t, err)

	assert.Equal(t, OrderStatusOpen, order.Status)
	assert.True(t, order.DueTotal.Equal(dec("60.00")))
}

func TestVoidPayment_PaidOrderRevertsToOpen(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "50.00", "1", "0")
	payment, err := order.RecordPayment(money("50.00"))
	require.NoError(t, err)
	require.Equal(t, OrderStatusPaid, order.Status)

	require.NoError(t, order.VoidPayment(payment.ID))

	assert.Equal(t, OrderStatusOpen, order.Status)
	assert.True(t, order.PaidTotal.IsZero())
	assert.True(t, order.DueTotal.Equal(dec("50.00")))
}

func TestRecalculate_ZeroTotalOrderNeverPaid(t *testing.T) {
	order := newTestOrder(t)

	order.Recalculate()

	assert.Equal(t, OrderStatusOpen, order.Status)
}

func TestVoid_IsTerminal(t *testing.T) {
	order := newTestOrder(t)
	item := addTaxedItem(t, order, "20.00", "1", "0")
	order.Void()

	_, err := order.AddItem(uuid.New(), "Fries", money("3.00"), dec("1"))
	assert.Error(t, err)
	assert.Error(t, order.RemoveItem(item.ID))
	_, err = order.RecordPayment(money("20.00"))
	assert.Error(t, err)
	assert.Error(t, order.SetTaxExempt(true))
	assert.Error(t, order.ApplyDiscount(nil, "Late", "FLAT", dec("1.00"), nil))

	// Recalculate never resurrects a void order
	order.Recalculate()
	assert.Equal(t, OrderStatusVoid, order.Status)
}

func TestVoid_FullyPaidVoidStaysVoid(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "10.00", "1", "0")
	_, err := order.RecordPayment(money("10.00"))
	require.NoError(t, err)
	order.Void()

	order.Recalculate()

	assert.Equal(t, OrderStatusVoid, order.Status)
}

func TestSendAndHold_Transitions(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "10.00", "1", "0")

	require.NoError(t, order.Hold())
	assert.Equal(t, OrderStatusHold, order.Status)

	require.NoError(t, order.Send())
	assert.Equal(t, OrderStatusSent, order.Status)

	// SENT survives recomputation while due remains positive
	order.Recalculate()
	assert.Equal(t, OrderStatusSent, order.Status)

	// full payment promotes SENT to PAID
	_, err := order.RecordPayment(money("10.00"))
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPaid, order.Status)
}

func TestOverpayment_NegativeDueStillPaid(t *testing.T) {
	order := newTestOrder(t)
	addTaxedItem(t, order, "10.00", "1", "0")

	_, err := order.RecordPayment(money("15.00"))
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.True(t, order.DueTotal.Equal(dec("-5.00")))
}
