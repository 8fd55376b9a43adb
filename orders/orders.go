// Package orders implements the MWS Orders API: listing orders, fetching
// orders by id, and listing order items, with NextToken pagination handled
// internally.
package orders

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellerkit/gomws/mws"
)

const (
	apiPath    = "/Orders/2013-09-01"
	apiVersion = "2013-09-01"
)

// Amazon caps GetOrder at 50 ids per call.
const maxOrderIDsPerCall = 50

func op(action string) mws.Operation {
	return mws.Operation{Action: action, Path: apiPath, Version: apiVersion, Group: mws.GroupOrders}
}

// Client issues Orders API requests.
type Client struct {
	core   *mws.Client
	logger zerolog.Logger
}

// NewClient creates an orders client on top of the shared request core.
func NewClient(core *mws.Client, logger zerolog.Logger) *Client {
	return &Client{core: core, logger: logger}
}

func (p ListParams) values(marketplaceID string) mws.Values {
	v := mws.NewValues()
	created := p.CreatedAfter
	if created.IsZero() && p.LastUpdatedAfter.IsZero() {
		created = time.Now().Add(-24 * time.Hour)
	}
	v.SetTime("CreatedAfter", created)
	v.SetTime("CreatedBefore", p.CreatedBefore)
	v.SetTime("LastUpdatedAfter", p.LastUpdatedAfter)
	v.SetList("OrderStatus", "Status", p.Statuses)
	v.SetList("FulfillmentChannel", "Channel", p.FulfillmentChannels)
	v.Set("BuyerEmail", p.BuyerEmail)
	if p.MaxResultsPerPage > 0 {
		v.SetInt("MaxResultsPerPage", p.MaxResultsPerPage)
	}
	ids := p.MarketplaceIDs
	if len(ids) == 0 && marketplaceID != "" {
		ids = []string{marketplaceID}
	}
	v.SetList("MarketplaceId", "Id", ids)
	return v
}

type listOrdersResponse struct {
	XMLName xml.Name `xml:"ListOrdersResponse"`
	Result  struct {
		NextToken string  `xml:"NextToken"`
		Orders    []Order `xml:"Orders>Order"`
	} `xml:"ListOrdersResult"`
}

type listOrdersByNextTokenResponse struct {
	XMLName xml.Name `xml:"ListOrdersByNextTokenResponse"`
	Result  struct {
		NextToken string  `xml:"NextToken"`
		Orders    []Order `xml:"Orders>Order"`
	} `xml:"ListOrdersByNextTokenResult"`
}

// List fetches one page of orders. The returned token is empty when no
// further pages exist.
func (c *Client) List(ctx context.Context, params ListParams) ([]Order, string, error) {
	var resp listOrdersResponse
	if err := c.core.Do(ctx, op("ListOrders"), params.values(c.core.Store().MarketplaceID), &resp); err != nil {
		return nil, "", fmt.Errorf("failed to list orders: %w", err)
	}
	return resp.Result.Orders, resp.Result.NextToken, nil
}

// ListByNextToken fetches the next page of a previous List call.
func (c *Client) ListByNextToken(ctx context.Context, token string) ([]Order, string, error) {
	if token == "" {
		return nil, "", mws.ErrNoToken
	}
	v := mws.NewValues()
	v.Set("NextToken", token)

	var resp listOrdersByNextTokenResponse
	if err := c.core.Do(ctx, op("ListOrdersByNextToken"), v, &resp); err != nil {
		return nil, "", fmt.Errorf("failed to list orders by next token: %w", err)
	}
	return resp.Result.Orders, resp.Result.NextToken, nil
}

// ListAll walks every page of a ListOrders call.
func (c *Client) ListAll(ctx context.Context, params ListParams) ([]Order, error) {
	all, token, err := c.List(ctx, params)
	if err != nil {
		return nil, err
	}
	for token != "" {
		var page []Order
		page, token, err = c.ListByNextToken(ctx, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)

		c.logger.Debug().
			Int("page_count", len(page)).
			Int("total", len(all)).
			Msg("Retrieved order page")
	}
	return all, nil
}

// Get fetches orders by Amazon order id, up to 50 per call.
func (c *Client) Get(ctx context.Context, orderIDs ...string) ([]Order, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("%w: AmazonOrderId", mws.ErrMissingParam)
	}
	if len(orderIDs) > maxOrderIDsPerCall {
		return nil, fmt.Errorf("at most %d order ids per GetOrder call, got %d", maxOrderIDsPerCall, len(orderIDs))
	}

	v := mws.NewValues()
	v.SetList("AmazonOrderId", "Id", orderIDs)

	var resp struct {
		XMLName xml.Name `xml:"GetOrderResponse"`
		Result  struct {
			Orders []Order `xml:"Orders>Order"`
		} `xml:"GetOrderResult"`
	}
	if err := c.core.Do(ctx, op("GetOrder"), v, &resp); err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return resp.Result.Orders, nil
}

// Items fetches every item of one order, following NextToken pages.
func (c *Client) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	if orderID == "" {
		return nil, fmt.Errorf("%w: AmazonOrderId", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("AmazonOrderId", orderID)

	var resp struct {
		XMLName xml.Name `xml:"ListOrderItemsResponse"`
		Result  struct {
			NextToken string      `xml:"NextToken"`
			Items     []OrderItem `xml:"OrderItems>OrderItem"`
		} `xml:"ListOrderItemsResult"`
	}
	if err := c.core.Do(ctx, op("ListOrderItems"), v, &resp); err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}

	items := resp.Result.Items
	token := resp.Result.NextToken
	for token != "" {
		nv := mws.NewValues()
		nv.Set("NextToken", token)

		var next struct {
			XMLName xml.Name `xml:"ListOrderItemsByNextTokenResponse"`
			Result  struct {
				NextToken string      `xml:"NextToken"`
				Items     []OrderItem `xml:"OrderItems>OrderItem"`
			} `xml:"ListOrderItemsByNextTokenResult"`
		}
		if err := c.core.Do(ctx, op("ListOrderItemsByNextToken"), nv, &next); err != nil {
			return nil, fmt.Errorf("failed to list order items by next token: %w", err)
		}
		items = append(items, next.Result.Items...)
		token = next.Result.NextToken
	}

	return items, nil
}
