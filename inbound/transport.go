// Package inbound implements the inbound shipment transport content family
// of the MWS FulfillmentInboundShipment API: putting, estimating,
// confirming, and voiding the transport arrangement for a shipment.
package inbound

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sellerkit/gomws/mws"
)

const (
	apiPath    = "/FulfillmentInboundShipment/2010-10-01"
	apiVersion = "2010-10-01"
)

func op(action string) mws.Operation {
	return mws.Operation{Action: action, Path: apiPath, Version: apiVersion, Group: mws.GroupInbound}
}

// TransportResult carries the transport workflow state for a shipment.
type TransportResult struct {
	TransportStatus string `xml:"TransportStatus"`
}

// PartneredEstimate is Amazon's shipping cost estimate for a partnered
// shipment, present once the transport reaches ESTIMATED.
type PartneredEstimate struct {
	CurrencyCode string `xml:"Amount>CurrencyCode"`
	Value        string `xml:"Amount>Value"`
}

// TransportContent is the parsed GetTransportContent result.
type TransportContent struct {
	SellerID     string `xml:"TransportHeader>SellerId"`
	ShipmentID   string `xml:"TransportHeader>ShipmentId"`
	IsPartnered  bool   `xml:"TransportHeader>IsPartnered"`
	ShipmentType string `xml:"TransportHeader>ShipmentType"`

	TransportStatus string             `xml:"TransportResult>TransportStatus"`
	Estimate        *PartneredEstimate `xml:"TransportDetails>PartneredSmallParcelData>PartneredEstimate"`
}

// Client issues transport content operations for inbound shipments.
type Client struct {
	core   *mws.Client
	logger zerolog.Logger
}

// NewClient creates an inbound shipment client on top of the shared
// request core.
func NewClient(core *mws.Client, logger zerolog.Logger) *Client {
	return &Client{core: core, logger: logger}
}

// buildTransportParams assembles and validates the full parameter set for
// PutTransportContent. On any validation failure every transport-related
// key is cleared before the error is returned, so no partial data can
// reach a later submission.
func buildTransportParams(shipmentID string, details TransportDetails) (mws.Values, error) {
	if shipmentID == "" {
		return nil, fmt.Errorf("%w: ShipmentId", mws.ErrMissingParam)
	}
	if details == nil {
		return nil, fmt.Errorf("%w: transport details", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("ShipmentId", shipmentID)
	v.SetBool("IsPartnered", details.Partnered())
	v.Set("ShipmentType", string(details.ShipmentType()))
	if err := details.setParams(v); err != nil {
		v.ResetPrefix("TransportDetails")
		return nil, err
	}
	return v, nil
}

// PutTransportContent sends the transport details for a shipment and
// returns the resulting transport status.
func (c *Client) PutTransportContent(ctx context.Context, shipmentID string, details TransportDetails) (*TransportResult, error) {
	v, err := buildTransportParams(shipmentID, details)
	if err != nil {
		return nil, err
	}

	var resp struct {
		XMLName xml.Name        `xml:"PutTransportContentResponse"`
		Result  TransportResult `xml:"PutTransportContentResult>TransportResult"`
	}
	if err := c.core.Do(ctx, op("PutTransportContent"), v, &resp); err != nil {
		return nil, fmt.Errorf("failed to put transport content: %w", err)
	}

	c.logger.Debug().
		Str("shipment_id", shipmentID).
		Str("transport_status", resp.Result.TransportStatus).
		Msg("Transport content submitted")

	return &resp.Result, nil
}

// GetTransportContent fetches the current transport arrangement for a
// shipment.
func (c *Client) GetTransportContent(ctx context.Context, shipmentID string) (*TransportContent, error) {
	if shipmentID == "" {
		return nil, fmt.Errorf("%w: ShipmentId", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("ShipmentId", shipmentID)

	var resp struct {
		XMLName xml.Name         `xml:"GetTransportContentResponse"`
		Content TransportContent `xml:"GetTransportContentResult>TransportContent"`
	}
	if err := c.core.Do(ctx, op("GetTransportContent"), v, &resp); err != nil {
		return nil, fmt.Errorf("failed to get transport content: %w", err)
	}
	return &resp.Content, nil
}

// EstimateTransport asks Amazon to estimate the shipping cost for a
// partnered shipment.
func (c *Client) EstimateTransport(ctx context.Context, shipmentID string) (*TransportResult, error) {
	return c.transportAction(ctx, "EstimateTransportRequest", shipmentID)
}

// ConfirmTransport accepts Amazon's estimate and books the shipment.
func (c *Client) ConfirmTransport(ctx context.Context, shipmentID string) (*TransportResult, error) {
	return c.transportAction(ctx, "ConfirmTransportRequest", shipmentID)
}

// VoidTransport cancels a previously confirmed transport. Amazon only
// honors the void within its grace window after confirmation.
func (c *Client) VoidTransport(ctx context.Context, shipmentID string) (*TransportResult, error) {
	return c.transportAction(ctx, "VoidTransportRequest", shipmentID)
}

// transportAction runs one of the estimate/confirm/void requests, which
// share a parameter set and response shape.
func (c *Client) transportAction(ctx context.Context, action, shipmentID string) (*TransportResult, error) {
	if shipmentID == "" {
		return nil, fmt.Errorf("%w: ShipmentId", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("ShipmentId", shipmentID)

	var resp transportActionResponse
	if err := c.core.Do(ctx, op(action), v, &resp); err != nil {
		return nil, fmt.Errorf("%s failed: %w", action, err)
	}

	c.logger.Debug().
		Str("action", action).
		Str("shipment_id", shipmentID).
		Str("transport_status", resp.Result.TransportStatus).
		Msg("Transport action completed")

	return &resp.Result, nil
}

// transportActionResponse matches EstimateTransportRequestResponse,
// ConfirmTransportRequestResponse, and VoidTransportRequestResponse; the
// element names differ per action but the nesting is identical, so the
// root name is left open.
type transportActionResponse struct {
	Result TransportResult `xml:"TransportResult"`
}

// UnmarshalXML walks to the first TransportResult element regardless of
// the action-specific wrapper names.
func (r *transportActionResponse) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "TransportResult" {
			return d.DecodeElement(&r.Result, &se)
		}
		if ee, ok := tok.(xml.EndElement); ok && ee.Name == start.Name {
			return fmt.Errorf("%s response missing TransportResult", start.Name.Local)
		}
	}
}
