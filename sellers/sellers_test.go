package sellers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerkit/gomws/mws"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	throttler := mws.NewThrottler()
	throttler.SetSpacing(mws.GroupSellers, 0)

	core, err := mws.NewClient(mws.Store{
		SellerID:    "A2EXAMPLE",
		AccessKeyID: "AKIAEXAMPLE",
		SecretKey:   "test-secret",
	}, zerolog.Nop(), mws.WithEndpoint(serverURL), mws.WithThrottler(throttler))
	require.NoError(t, err)

	return NewClient(core, zerolog.Nop())
}

const participationsPage1 = `<?xml version="1.0"?>
<ListMarketplaceParticipationsResponse xmlns="https://mws.amazonservices.com/Sellers/2011-07-01">
  <ListMarketplaceParticipationsResult>
    <NextToken>MRgZW55IGNhcm5hbA==</NextToken>
    <ListParticipations>
      <Participation>
        <MarketplaceId>ATVPDKIKX0DER</MarketplaceId>
        <SellerId>A2EXAMPLE</SellerId>
        <HasSellerSuspendedListings>No</HasSellerSuspendedListings>
      </Participation>
    </ListParticipations>
    <ListMarketplaces>
      <Marketplace>
        <MarketplaceId>ATVPDKIKX0DER</MarketplaceId>
        <Name>Amazon.com</Name>
        <DefaultCountryCode>US</DefaultCountryCode>
        <DefaultCurrencyCode>USD</DefaultCurrencyCode>
        <DefaultLanguageCode>en_US</DefaultLanguageCode>
        <DomainName>www.amazon.com</DomainName>
      </Marketplace>
    </ListMarketplaces>
  </ListMarketplaceParticipationsResult>
</ListMarketplaceParticipationsResponse>`

const participationsPage2 = `<?xml version="1.0"?>
<ListMarketplaceParticipationsByNextTokenResponse xmlns="https://mws.amazonservices.com/Sellers/2011-07-01">
  <ListMarketplaceParticipationsByNextTokenResult>
    <ListParticipations>
      <Participation>
        <MarketplaceId>A1F83G8C2ARO7P</MarketplaceId>
        <SellerId>A2EXAMPLE</SellerId>
        <HasSellerSuspendedListings>No</HasSellerSuspendedListings>
      </Participation>
    </ListParticipations>
    <ListMarketplaces>
      <Marketplace>
        <MarketplaceId>A1F83G8C2ARO7P</MarketplaceId>
        <Name>Amazon.co.uk</Name>
        <DefaultCountryCode>GB</DefaultCountryCode>
        <DefaultCurrencyCode>GBP</DefaultCurrencyCode>
        <DefaultLanguageCode>en_GB</DefaultLanguageCode>
        <DomainName>www.amazon.co.uk</DomainName>
      </Marketplace>
    </ListMarketplaces>
  </ListMarketplaceParticipationsByNextTokenResult>
</ListMarketplaceParticipationsByNextTokenResponse>`

func TestListParticipationsFollowsNextToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/Sellers/2011-07-01", r.URL.Path)

		switch r.PostForm.Get("Action") {
		case "ListMarketplaceParticipations":
			w.Write([]byte(participationsPage1))
		case "ListMarketplaceParticipationsByNextToken":
			assert.Equal(t, "MRgZW55IGNhcm5hbA==", r.PostForm.Get("NextToken"))
			w.Write([]byte(participationsPage2))
		default:
			t.Errorf("unexpected action %q", r.PostForm.Get("Action"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.ListParticipations(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Participations, 2)
	require.Len(t, result.Marketplaces, 2)

	assert.Equal(t, "ATVPDKIKX0DER", result.Participations[0].MarketplaceID)
	assert.Equal(t, "A1F83G8C2ARO7P", result.Participations[1].MarketplaceID)
	assert.Equal(t, "Amazon.co.uk", result.Marketplaces[1].Name)
	assert.Equal(t, "GBP", result.Marketplaces[1].DefaultCurrencyCode)
}

func TestListParticipationsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0"?>
<ErrorResponse>
  <Error>
    <Type>Sender</Type>
    <Code>AccessDenied</Code>
    <Message>Access to Sellers.ListMarketplaceParticipations is denied</Message>
  </Error>
  <RequestID>deadbeef-0000</RequestID>
</ErrorResponse>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.ListParticipations(context.Background())
	require.Error(t, err)

	var apiErr *mws.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AccessDenied", apiErr.Code)
	assert.True(t, apiErr.IsInvalidAccess())
}
