// Package mws provides the shared request core for the Amazon Marketplace
// Web Service (MWS) XML query API.
//
// Operation-family packages (status, inbound, orders, feeds, sellers) build
// a parameter set, name their Operation, and hand both to a Client. The
// client stamps the common identity parameters, signs the request with
// Signature Version 2, waits out the operation family's request spacing,
// POSTs, and parses the XML response.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := mws.NewClient(mws.Store{
//		SellerID:      "A2EXAMPLE",
//		MarketplaceID: "ATVPDKIKX0DER",
//		AccessKeyID:   "AKIAEXAMPLE",
//		SecretKey:     "...",
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	statusClient := status.NewClient(client, logger)
//	st, err := statusClient.Get(ctx, status.SectionOrders)
//
// # Mock mode
//
// Tests and offline runs substitute canned XML fixtures for live calls:
//
//	mock := mws.NewMockTransport(os.DirFS("testdata"), "orders.xml")
//	client, err := mws.NewClient(store, logger, mws.WithMock(mock))
//
// The mock transport serves the fixture files in order, cycling, and
// performs no network I/O.
//
// # Error Handling
//
// Response-level failures surface as *APIError with the MWS error code,
// message, type, and request id, plus classifier methods (IsThrottled,
// IsInvalidAccess, IsNotFound). Configuration and parameter problems are
// reported through the ErrInvalidConfig and ErrMissingParam sentinels.
package mws
