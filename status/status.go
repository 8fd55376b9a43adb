// Package status implements the GetServiceStatus operation that every MWS
// API section exposes.
package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/sellerkit/gomws/mws"
)

// Service status values returned by Amazon.
const (
	StatusGreen  = "GREEN"
	StatusGreenI = "GREEN_I"
	StatusYellow = "YELLOW"
	StatusRed    = "RED"
)

// Section identifies one MWS API section.
type Section string

const (
	SectionSellers  Section = "Sellers"
	SectionOrders   Section = "Orders"
	SectionFeeds    Section = "Feeds"
	SectionInbound  Section = "FulfillmentInboundShipment"
	SectionProducts Section = "Products"
)

// Sections lists every section this package knows how to query.
var Sections = []Section{
	SectionSellers,
	SectionOrders,
	SectionFeeds,
	SectionInbound,
	SectionProducts,
}

// sectionOps maps each section to the path and version its status
// endpoint lives at. Each section holds its own status quota, so the
// throttle key is derived per section.
var sectionOps = map[Section]mws.Operation{
	SectionSellers:  {Action: "GetServiceStatus", Path: "/Sellers/2011-07-01", Version: "2011-07-01", Group: mws.GroupStatus.Sub("Sellers")},
	SectionOrders:   {Action: "GetServiceStatus", Path: "/Orders/2013-09-01", Version: "2013-09-01", Group: mws.GroupStatus.Sub("Orders")},
	SectionFeeds:    {Action: "GetServiceStatus", Path: "/Feeds/2009-01-01", Version: "2009-01-01", Group: mws.GroupStatus.Sub("Feeds")},
	SectionInbound:  {Action: "GetServiceStatus", Path: "/FulfillmentInboundShipment/2010-10-01", Version: "2010-10-01", Group: mws.GroupStatus.Sub("FulfillmentInboundShipment")},
	SectionProducts: {Action: "GetServiceStatus", Path: "/Products/2011-10-01", Version: "2011-10-01", Group: mws.GroupStatus.Sub("Products")},
}

// Message is one operational notice attached to a GREEN_I status.
type Message struct {
	Locale string
	Text   string
}

// ServiceStatus is the parsed GetServiceStatus result.
type ServiceStatus struct {
	Section   Section
	Status    string
	Timestamp time.Time
	// MessageID and Messages are only populated for GREEN_I.
	MessageID string
	Messages  []Message
}

// Operational reports whether the section is serving requests normally.
func (s *ServiceStatus) Operational() bool {
	return s.Status == StatusGreen || s.Status == StatusGreenI
}

// Client queries service status for MWS API sections.
type Client struct {
	core   *mws.Client
	logger zerolog.Logger
}

// NewClient creates a status client on top of the shared request core.
func NewClient(core *mws.Client, logger zerolog.Logger) *Client {
	return &Client{core: core, logger: logger}
}

// Get fetches the service status of one API section.
func (c *Client) Get(ctx context.Context, section Section) (*ServiceStatus, error) {
	op, ok := sectionOps[section]
	if !ok {
		return nil, fmt.Errorf("unknown API section %q", section)
	}

	body, err := c.core.DoRaw(ctx, op, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s service status: %w", section, err)
	}

	st, err := parseServiceStatus(body)
	if err != nil {
		return nil, err
	}
	st.Section = section

	c.logger.Debug().
		Str("section", string(section)).
		Str("status", st.Status).
		Int("messages", len(st.Messages)).
		Msg("Service status retrieved")

	return st, nil
}

// parseServiceStatus reads Status and Timestamp from the response; for
// GREEN_I it additionally reads MessageId and the nested message list.
func parseServiceStatus(body []byte) (*ServiceStatus, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse service status response: %w", err)
	}

	result := doc.FindElement("//*[local-name()='GetServiceStatusResult']")
	if result == nil {
		return nil, fmt.Errorf("service status response missing GetServiceStatusResult")
	}

	st := &ServiceStatus{}
	if e := result.FindElement("./Status"); e != nil {
		st.Status = strings.TrimSpace(e.Text())
	}
	if st.Status == "" {
		return nil, fmt.Errorf("service status response missing Status")
	}
	if e := result.FindElement("./Timestamp"); e != nil {
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Text()))
		if err != nil {
			return nil, fmt.Errorf("bad service status timestamp: %w", err)
		}
		st.Timestamp = ts
	}

	if st.Status != StatusGreenI {
		return st, nil
	}

	if e := result.FindElement("./MessageId"); e != nil {
		st.MessageID = strings.TrimSpace(e.Text())
	}
	for _, msg := range result.FindElements("./Messages/Message") {
		m := Message{}
		if e := msg.FindElement("./Locale"); e != nil {
			m.Locale = strings.TrimSpace(e.Text())
		}
		if e := msg.FindElement("./Text"); e != nil {
			m.Text = strings.TrimSpace(e.Text())
		}
		st.Messages = append(st.Messages, m)
	}

	return st, nil
}
