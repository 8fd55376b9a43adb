package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() Order {
	return Order{
		AmazonOrderID:          "902-3159896-1390916",
		OrderStatus:            StatusShipped,
		PurchaseDate:           time.Now().AddDate(0, 0, -3),
		FulfillmentChannel:     "AFN",
		SalesChannel:           "Amazon.com",
		MarketplaceID:          "ATVPDKIKX0DER",
		OrderTotal:             &Money{CurrencyCode: "USD", Amount: "58.25"},
		NumberOfItemsShipped:   2,
		NumberOfItemsUnshipped: 0,
		IsPrime:                true,
	}
}

func TestCompileFilterErrors(t *testing.T) {
	_, err := CompileFilter("")
	require.Error(t, err)

	_, err = CompileFilter("   ")
	require.Error(t, err)

	_, err = CompileFilter("Total >")
	require.Error(t, err)
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{`Status == "Shipped"`, true},
		{`Status == "Pending"`, false},
		{`Total > 50`, true},
		{`Total > 100`, false},
		{`Currency == "USD" && IsPrime`, true},
		{`shipped()`, true},
		{`pending()`, false},
		{`fulfilledByAmazon()`, true},
		{`daysSince(PurchaseDate) < 7`, true},
		{`PurchaseDate > daysAgo(1)`, false},
		{`contains(SalesChannel, "AMAZON")`, true},
		{`startsWith(OrderID, "902-")`, true},
		{`ItemsShipped == 2 && ItemsUnshipped == 0`, true},
		{`Order.AmazonOrderID == "902-3159896-1390916"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := CompileFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(testOrder()))
		})
	}
}

func TestFilterMatchNonBoolean(t *testing.T) {
	f, err := CompileFilter(`Total + 1`)
	require.NoError(t, err)

	// Non-boolean results never match
	assert.False(t, f.Match(testOrder()))
}

func TestFilterApply(t *testing.T) {
	shipped := testOrder()

	pending := testOrder()
	pending.AmazonOrderID = "902-0000000-0000001"
	pending.OrderStatus = StatusPending
	pending.OrderTotal = &Money{CurrencyCode: "USD", Amount: "9.99"}

	f, err := CompileFilter(`Status == "Shipped" && Total > 50`)
	require.NoError(t, err)

	matched := f.Apply([]Order{shipped, pending})
	require.Len(t, matched, 1)
	assert.Equal(t, shipped.AmazonOrderID, matched[0].AmazonOrderID)
}

func TestFilterNilTotal(t *testing.T) {
	order := testOrder()
	order.OrderTotal = nil

	f, err := CompileFilter(`Total == 0`)
	require.NoError(t, err)
	assert.True(t, f.Match(order))
}
