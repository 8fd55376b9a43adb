package inbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerkit/gomws/mws"
)

// newTestClient wires an inbound client to an httptest server with
// request spacing removed.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	throttler := mws.NewThrottler()
	throttler.SetSpacing(mws.GroupInbound, 0)

	core, err := mws.NewClient(mws.Store{
		SellerID:    "A2EXAMPLE",
		AccessKeyID: "AKIAEXAMPLE",
		SecretKey:   "test-secret",
	}, zerolog.Nop(), mws.WithEndpoint(serverURL), mws.WithThrottler(throttler))
	require.NoError(t, err)

	return NewClient(core, zerolog.Nop())
}

func TestBuildTransportParamsNonPartneredSmallParcel(t *testing.T) {
	details := &NonPartneredSmallParcel{
		CarrierName: "DHL",
		TrackingIDs: []string{"1Z999AA1", "1Z999AA2"},
	}

	v, err := buildTransportParams("FBA1234", details)
	require.NoError(t, err)

	assert.Equal(t, "FBA1234", v["ShipmentId"])
	assert.Equal(t, "false", v["IsPartnered"])
	assert.Equal(t, "SP", v["ShipmentType"])
	assert.Equal(t, "DHL", v["TransportDetails.NonPartneredSmallParcelData.CarrierName"])
	assert.Equal(t, "1Z999AA1", v["TransportDetails.NonPartneredSmallParcelData.PackageList.member.1.TrackingId"])
	assert.Equal(t, "1Z999AA2", v["TransportDetails.NonPartneredSmallParcelData.PackageList.member.2.TrackingId"])
}

func TestBuildTransportParamsPartneredSmallParcel(t *testing.T) {
	details := &PartneredSmallParcel{
		Packages: []PartneredPackage{
			{
				Dimensions: Dimensions{Unit: "inches", Length: 12, Width: 10, Height: 8.5},
				Weight:     Weight{Unit: "pounds", Value: 24},
			},
		},
	}

	v, err := buildTransportParams("FBA1234", details)
	require.NoError(t, err)

	assert.Equal(t, "true", v["IsPartnered"])
	assert.Equal(t, "inches", v["TransportDetails.PartneredSmallParcelData.PackageList.member.1.Dimensions.Unit"])
	assert.Equal(t, "8.5", v["TransportDetails.PartneredSmallParcelData.PackageList.member.1.Dimensions.Height"])
	assert.Equal(t, "24", v["TransportDetails.PartneredSmallParcelData.PackageList.member.1.Weight.Value"])
}

func TestBuildTransportParamsNonPartneredLTL(t *testing.T) {
	v, err := buildTransportParams("FBA1234", &NonPartneredLTL{CarrierName: "YRC", ProNumber: "123456789"})
	require.NoError(t, err)

	assert.Equal(t, "LTL", v["ShipmentType"])
	assert.Equal(t, "YRC", v["TransportDetails.NonPartneredLtlData.CarrierName"])
	assert.Equal(t, "123456789", v["TransportDetails.NonPartneredLtlData.ProNumber"])
}

func TestBuildTransportParamsPartneredLTL(t *testing.T) {
	details := &PartneredLTL{
		Contact:          Contact{Name: "Jo Seller", Phone: "555-0100", Email: "jo@example.com"},
		BoxCount:         40,
		FreightReadyDate: time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC),
		Pallets: []Pallet{
			{Dimensions: Dimensions{Unit: "inches", Length: 48, Width: 40, Height: 60}, IsStacked: true},
		},
		TotalWeight:         &Weight{Unit: "pounds", Value: 800},
		SellerDeclaredValue: &Amount{CurrencyCode: "USD", Value: "1200.00"},
	}

	v, err := buildTransportParams("FBA1234", details)
	require.NoError(t, err)

	assert.Equal(t, "Jo Seller", v["TransportDetails.PartneredLtlData.Contact.Name"])
	assert.Equal(t, "40", v["TransportDetails.PartneredLtlData.BoxCount"])
	assert.Equal(t, "2019-04-01", v["TransportDetails.PartneredLtlData.FreightReadyDate"])
	assert.Equal(t, "true", v["TransportDetails.PartneredLtlData.PalletList.member.1.IsStacked"])
	assert.Equal(t, "800", v["TransportDetails.PartneredLtlData.TotalWeight.Value"])
	assert.Equal(t, "USD", v["TransportDetails.PartneredLtlData.SellerDeclaredValue.CurrencyCode"])
}

func TestBuildTransportParamsValidation(t *testing.T) {
	tests := []struct {
		name       string
		shipmentID string
		details    TransportDetails
		errMsg     string
	}{
		{
			name:    "missing shipment id",
			details: &NonPartneredLTL{CarrierName: "YRC", ProNumber: "1"},
			errMsg:  "ShipmentId",
		},
		{
			name:       "nil details",
			shipmentID: "FBA1234",
			errMsg:     "transport details",
		},
		{
			name:       "non-partnered SP without carrier",
			shipmentID: "FBA1234",
			details:    &NonPartneredSmallParcel{TrackingIDs: []string{"1Z999"}},
			errMsg:     "CarrierName",
		},
		{
			name:       "non-partnered SP without packages",
			shipmentID: "FBA1234",
			details:    &NonPartneredSmallParcel{CarrierName: "DHL"},
			errMsg:     "PackageList",
		},
		{
			name:       "non-partnered SP with empty tracking id",
			shipmentID: "FBA1234",
			details:    &NonPartneredSmallParcel{CarrierName: "DHL", TrackingIDs: []string{"1Z999", ""}},
			errMsg:     "TrackingId",
		},
		{
			name:       "partnered SP without packages",
			shipmentID: "FBA1234",
			details:    &PartneredSmallParcel{},
			errMsg:     "PackageList",
		},
		{
			name:       "partnered SP without units",
			shipmentID: "FBA1234",
			details:    &PartneredSmallParcel{Packages: []PartneredPackage{{}}},
			errMsg:     "units",
		},
		{
			name:       "partnered LTL without contact",
			shipmentID: "FBA1234",
			details:    &PartneredLTL{BoxCount: 5, FreightReadyDate: time.Now()},
			errMsg:     "contact",
		},
		{
			name:       "non-partnered LTL without PRO number",
			shipmentID: "FBA1234",
			details:    &NonPartneredLTL{CarrierName: "YRC"},
			errMsg:     "ProNumber",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildTransportParams(tt.shipmentID, tt.details)
			require.Error(t, err)
			assert.ErrorIs(t, err, mws.ErrMissingParam)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// A failed detail shape must clear everything it wrote, never leaving
// partial transport data behind.
func TestSetParamsResetOnFailure(t *testing.T) {
	v := mws.NewValues()
	v.Set("ShipmentId", "FBA1234")

	details := &NonPartneredSmallParcel{
		CarrierName: "DHL",
		TrackingIDs: []string{"1Z999", ""},
	}
	err := details.setParams(v)
	require.Error(t, err)

	v.ResetPrefix("TransportDetails")
	assert.Len(t, v, 1)

	// buildTransportParams performs the reset itself
	_, err = buildTransportParams("FBA1234", details)
	require.Error(t, err)
}

const putTransportResponse = `<?xml version="1.0"?>
<PutTransportContentResponse xmlns="http://mws.amazonaws.com/FulfillmentInboundShipment/2010-10-01/">
  <PutTransportContentResult>
    <TransportResult>
      <TransportStatus>WORKING</TransportStatus>
    </TransportResult>
  </PutTransportContentResult>
</PutTransportContentResponse>`

func TestPutTransportContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/FulfillmentInboundShipment/2010-10-01", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "PutTransportContent", r.PostForm.Get("Action"))
		assert.Equal(t, "DHL", r.PostForm.Get("TransportDetails.NonPartneredSmallParcelData.CarrierName"))

		w.Write([]byte(putTransportResponse))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.PutTransportContent(context.Background(), "FBA1234", &NonPartneredSmallParcel{
		CarrierName: "DHL",
		TrackingIDs: []string{"1Z999"},
	})
	require.NoError(t, err)
	assert.Equal(t, TransportWorking, result.TransportStatus)
}

const getTransportResponse = `<?xml version="1.0"?>
<GetTransportContentResponse xmlns="http://mws.amazonaws.com/FulfillmentInboundShipment/2010-10-01/">
  <GetTransportContentResult>
    <TransportContent>
      <TransportHeader>
        <SellerId>A2EXAMPLE</SellerId>
        <ShipmentId>FBA1234</ShipmentId>
        <IsPartnered>true</IsPartnered>
        <ShipmentType>SP</ShipmentType>
      </TransportHeader>
      <TransportDetails>
        <PartneredSmallParcelData>
          <PartneredEstimate>
            <Amount>
              <CurrencyCode>USD</CurrencyCode>
              <Value>38.22</Value>
            </Amount>
          </PartneredEstimate>
        </PartneredSmallParcelData>
      </TransportDetails>
      <TransportResult>
        <TransportStatus>ESTIMATED</TransportStatus>
      </TransportResult>
    </TransportContent>
  </GetTransportContentResult>
</GetTransportContentResponse>`

func TestGetTransportContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(getTransportResponse))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	content, err := client.GetTransportContent(context.Background(), "FBA1234")
	require.NoError(t, err)

	assert.Equal(t, "FBA1234", content.ShipmentID)
	assert.True(t, content.IsPartnered)
	assert.Equal(t, "SP", content.ShipmentType)
	assert.Equal(t, TransportEstimated, content.TransportStatus)
	require.NotNil(t, content.Estimate)
	assert.Equal(t, "USD", content.Estimate.CurrencyCode)
	assert.Equal(t, "38.22", content.Estimate.Value)
}

func TestTransportActions(t *testing.T) {
	responses := map[string]string{
		"EstimateTransportRequest": `<EstimateTransportRequestResponse><EstimateTransportRequestResult><TransportResult><TransportStatus>ESTIMATING</TransportStatus></TransportResult></EstimateTransportRequestResult></EstimateTransportRequestResponse>`,
		"ConfirmTransportRequest":  `<ConfirmTransportRequestResponse><ConfirmTransportRequestResult><TransportResult><TransportStatus>CONFIRMING</TransportStatus></TransportResult></ConfirmTransportRequestResult></ConfirmTransportRequestResponse>`,
		"VoidTransportRequest":     `<VoidTransportRequestResponse><VoidTransportRequestResult><TransportResult><TransportStatus>VOIDING</TransportStatus></TransportResult></VoidTransportRequestResult></VoidTransportRequestResponse>`,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "FBA1234", r.PostForm.Get("ShipmentId"))
		w.Write([]byte(responses[r.PostForm.Get("Action")]))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	result, err := client.EstimateTransport(ctx, "FBA1234")
	require.NoError(t, err)
	assert.Equal(t, TransportEstimating, result.TransportStatus)

	result, err = client.ConfirmTransport(ctx, "FBA1234")
	require.NoError(t, err)
	assert.Equal(t, TransportConfirming, result.TransportStatus)

	result, err = client.VoidTransport(ctx, "FBA1234")
	require.NoError(t, err)
	assert.Equal(t, TransportVoiding, result.TransportStatus)
}

func TestTransportActionMissingResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?>
<ConfirmTransportRequestResponse>
  <ConfirmTransportRequestResult/>
</ConfirmTransportRequestResponse>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.ConfirmTransport(context.Background(), "FBA1234")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing TransportResult")
}

func TestTransportActionsRequireShipmentID(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	ctx := context.Background()

	_, err := client.EstimateTransport(ctx, "")
	assert.ErrorIs(t, err, mws.ErrMissingParam)

	_, err = client.GetTransportContent(ctx, "")
	assert.ErrorIs(t, err, mws.ErrMissingParam)
}
