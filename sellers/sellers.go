// Package sellers implements the MWS Sellers API, used to discover the
// marketplaces a seller account participates in.
package sellers

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sellerkit/gomws/mws"
)

const (
	apiPath    = "/Sellers/2011-07-01"
	apiVersion = "2011-07-01"
)

func op(action string) mws.Operation {
	return mws.Operation{Action: action, Path: apiPath, Version: apiVersion, Group: mws.GroupSellers}
}

// Marketplace describes one Amazon marketplace.
type Marketplace struct {
	ID                  string `xml:"MarketplaceId"`
	Name                string `xml:"Name"`
	DefaultCountryCode  string `xml:"DefaultCountryCode"`
	DefaultCurrencyCode string `xml:"DefaultCurrencyCode"`
	DefaultLanguageCode string `xml:"DefaultLanguageCode"`
	DomainName          string `xml:"DomainName"`
}

// Participation links the seller to one marketplace.
type Participation struct {
	MarketplaceID              string `xml:"MarketplaceId"`
	SellerID                   string `xml:"SellerId"`
	HasSellerSuspendedListings string `xml:"HasSellerSuspendedListings"`
}

// Participations is the combined ListMarketplaceParticipations result.
type Participations struct {
	Participations []Participation
	Marketplaces   []Marketplace
}

// Client issues Sellers API requests.
type Client struct {
	core   *mws.Client
	logger zerolog.Logger
}

// NewClient creates a sellers client on top of the shared request core.
func NewClient(core *mws.Client, logger zerolog.Logger) *Client {
	return &Client{core: core, logger: logger}
}

type participationsResult struct {
	NextToken      string          `xml:"NextToken"`
	Participations []Participation `xml:"ListParticipations>Participation"`
	Marketplaces   []Marketplace   `xml:"ListMarketplaces>Marketplace"`
}

// ListParticipations fetches every marketplace participation for the
// store, following NextToken pages.
func (c *Client) ListParticipations(ctx context.Context) (*Participations, error) {
	var resp struct {
		XMLName xml.Name             `xml:"ListMarketplaceParticipationsResponse"`
		Result  participationsResult `xml:"ListMarketplaceParticipationsResult"`
	}
	if err := c.core.Do(ctx, op("ListMarketplaceParticipations"), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list marketplace participations: %w", err)
	}

	out := &Participations{
		Participations: resp.Result.Participations,
		Marketplaces:   resp.Result.Marketplaces,
	}

	token := resp.Result.NextToken
	for token != "" {
		v := mws.NewValues()
		v.Set("NextToken", token)

		var next struct {
			XMLName xml.Name             `xml:"ListMarketplaceParticipationsByNextTokenResponse"`
			Result  participationsResult `xml:"ListMarketplaceParticipationsByNextTokenResult"`
		}
		if err := c.core.Do(ctx, op("ListMarketplaceParticipationsByNextToken"), v, &next); err != nil {
			return nil, fmt.Errorf("failed to list marketplace participations by next token: %w", err)
		}
		out.Participations = append(out.Participations, next.Result.Participations...)
		out.Marketplaces = append(out.Marketplaces, next.Result.Marketplaces...)
		token = next.Result.NextToken
	}

	c.logger.Debug().
		Int("participations", len(out.Participations)).
		Int("marketplaces", len(out.Marketplaces)).
		Msg("Marketplace participations retrieved")

	return out, nil
}
