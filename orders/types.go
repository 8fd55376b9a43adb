package orders

import (
	"strconv"
	"time"
)

// Order status values used in ListOrders filters and responses.
const (
	StatusPendingAvailability = "PendingAvailability"
	StatusPending             = "Pending"
	StatusUnshipped           = "Unshipped"
	StatusPartiallyShipped    = "PartiallyShipped"
	StatusShipped             = "Shipped"
	StatusCanceled            = "Canceled"
	StatusUnfulfillable       = "Unfulfillable"
)

// Money is an MWS currency amount. Amazon sends amounts as decimal
// strings; Float converts for arithmetic and filtering.
type Money struct {
	CurrencyCode string `xml:"CurrencyCode"`
	Amount       string `xml:"Amount"`
}

// Float returns the amount as a float64, or 0 when absent or malformed.
func (m *Money) Float() float64 {
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return f
}

// Order is one marketplace order.
type Order struct {
	AmazonOrderID          string    `xml:"AmazonOrderId"`
	SellerOrderID          string    `xml:"SellerOrderId"`
	PurchaseDate           time.Time `xml:"PurchaseDate"`
	LastUpdateDate         time.Time `xml:"LastUpdateDate"`
	OrderStatus            string    `xml:"OrderStatus"`
	FulfillmentChannel     string    `xml:"FulfillmentChannel"`
	SalesChannel           string    `xml:"SalesChannel"`
	ShipServiceLevel       string    `xml:"ShipServiceLevel"`
	OrderTotal             *Money    `xml:"OrderTotal"`
	NumberOfItemsShipped   int       `xml:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int       `xml:"NumberOfItemsUnshipped"`
	MarketplaceID          string    `xml:"MarketplaceId"`
	BuyerName              string    `xml:"BuyerName"`
	BuyerEmail             string    `xml:"BuyerEmail"`
	OrderType              string    `xml:"OrderType"`
	IsPrime                bool      `xml:"IsPrime"`
	IsBusinessOrder        bool      `xml:"IsBusinessOrder"`
	IsPremiumOrder         bool      `xml:"IsPremiumOrder"`
}

// Shipped reports whether every item in the order has shipped.
func (o *Order) Shipped() bool {
	return o.OrderStatus == StatusShipped
}

// OrderItem is one line of an order.
type OrderItem struct {
	ASIN              string `xml:"ASIN"`
	SellerSKU         string `xml:"SellerSKU"`
	OrderItemID       string `xml:"OrderItemId"`
	Title             string `xml:"Title"`
	QuantityOrdered   int    `xml:"QuantityOrdered"`
	QuantityShipped   int    `xml:"QuantityShipped"`
	ItemPrice         *Money `xml:"ItemPrice"`
	ShippingPrice     *Money `xml:"ShippingPrice"`
	PromotionDiscount *Money `xml:"PromotionDiscount"`
	IsGift            bool   `xml:"IsGift"`
	ConditionID       string `xml:"ConditionId"`
}

// ListParams narrows a ListOrders call. CreatedAfter and LastUpdatedAfter
// are mutually exclusive on Amazon's side; when both are zero,
// CreatedAfter defaults to 24 hours ago.
type ListParams struct {
	CreatedAfter        time.Time
	CreatedBefore       time.Time
	LastUpdatedAfter    time.Time
	Statuses            []string
	MarketplaceIDs      []string
	FulfillmentChannels []string
	BuyerEmail          string
	MaxResultsPerPage   int
}
