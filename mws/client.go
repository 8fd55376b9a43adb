package mws

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is the North America MWS endpoint. Stores in other
// regions override it via their configuration.
const DefaultEndpoint = "https://mws.amazonservices.com"

const defaultUserAgent = "gomws/1.0 (Language=Go)"

// Store holds the credentials for one seller account.
type Store struct {
	SellerID      string
	MarketplaceID string
	AccessKeyID   string
	SecretKey     string
	// AuthToken is required when calling on behalf of another seller.
	AuthToken string
	// Endpoint overrides DefaultEndpoint for non-NA marketplaces.
	Endpoint string
}

// Operation identifies one MWS action: the API section path it is served
// under, the section version, and the throttle group it draws from.
type Operation struct {
	Action  string
	Path    string
	Version string
	Group   ThrottleGroup
}

// Client is the shared MWS request core. Operation-family packages
// (status, inbound, orders, ...) build parameter sets and hand them to Do.
type Client struct {
	endpoint   string
	host       string
	store      Store
	httpClient *http.Client
	logger     zerolog.Logger
	throttler  *Throttler
	userAgent  string

	// now is replaceable for tests
	now func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithEndpoint overrides the service endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithThrottler replaces the default throttler.
func WithThrottler(t *Throttler) Option {
	return func(c *Client) { c.throttler = t }
}

// WithMock installs a mock transport on the client. All requests are
// answered from its fixture files; nothing touches the network. Other
// client settings such as the timeout are kept.
func WithMock(m *MockTransport) Option {
	return func(c *Client) {
		c.httpClient.Transport = m
	}
}

// NewClient creates a client for the given store.
func NewClient(store Store, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if store.SellerID == "" {
		return nil, fmt.Errorf("%w: seller id is required", ErrInvalidConfig)
	}
	if store.AccessKeyID == "" {
		return nil, fmt.Errorf("%w: access key id is required", ErrInvalidConfig)
	}
	if store.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret key is required", ErrInvalidConfig)
	}

	endpoint := store.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		store:    store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		throttler: NewThrottler(),
		userAgent: defaultUserAgent,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint %q: %v", ErrInvalidConfig, c.endpoint, err)
	}
	c.host = u.Host

	return c, nil
}

// Store returns the credentials the client was built with.
func (c *Client) Store() Store {
	return c.store
}

// Throttler exposes the client's throttle table.
func (c *Client) Throttler() *Throttler {
	return c.throttler
}

// stamp fills in the parameters common to every request: identity,
// signature metadata, action, version, timestamp.
func (c *Client) stamp(op Operation, vals Values) {
	vals.Set("Action", op.Action)
	vals.Set("Version", op.Version)
	vals.Set("SellerId", c.store.SellerID)
	vals.Set("AWSAccessKeyId", c.store.AccessKeyID)
	vals.Set("MWSAuthToken", c.store.AuthToken)
	vals.Set("SignatureMethod", SignatureMethod)
	vals.Set("SignatureVersion", SignatureVersion)
	vals.SetTime("Timestamp", c.now())
}

// DoRaw submits one signed request and returns the raw response body.
// The caller's parameter set is not modified.
func (c *Client) DoRaw(ctx context.Context, op Operation, vals Values) ([]byte, error) {
	body, _, err := c.DoRawHeader(ctx, op, vals)
	return body, err
}

// DoRawHeader is DoRaw plus the response headers, for callers that need
// transport metadata such as Content-MD5.
func (c *Client) DoRawHeader(ctx context.Context, op Operation, vals Values) ([]byte, http.Header, error) {
	if vals == nil {
		vals = NewValues()
	} else {
		vals = vals.Clone()
	}
	c.stamp(op, vals)
	vals.Set("Signature", SignValues(vals, http.MethodPost, c.host, op.Path, c.store.SecretKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+op.Path, strings.NewReader(vals.Encode()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	return c.send(ctx, op, req)
}

// Do submits one signed request and unmarshals the XML response into out.
// Pass nil when the response body is not needed.
func (c *Client) Do(ctx context.Context, op Operation, vals Values, out any) error {
	body, err := c.DoRaw(ctx, op, vals)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", op.Action, err)
	}
	return nil
}

// DoUpload submits a request whose body is caller content (a feed
// document). Parameters move to the URL query string, and the body's MD5
// is sent both as the Content-MD5 header and the signed ContentMD5Value
// parameter so Amazon can detect a corrupted upload.
func (c *Client) DoUpload(ctx context.Context, op Operation, vals Values, content io.Reader, contentType string) ([]byte, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}

	sum := md5.Sum(data)
	contentMD5 := base64.StdEncoding.EncodeToString(sum[:])

	if vals == nil {
		vals = NewValues()
	} else {
		vals = vals.Clone()
	}
	c.stamp(op, vals)
	vals.Set("ContentMD5Value", contentMD5)
	vals.Set("Signature", SignValues(vals, http.MethodPost, c.host, op.Path, c.store.SecretKey))

	reqURL := c.endpoint + op.Path + "?" + vals.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-MD5", contentMD5)

	body, _, err := c.send(ctx, op, req)
	return body, err
}

// send waits for the throttle slot, performs the request, and checks the
// response.
func (c *Client) send(ctx context.Context, op Operation, req *http.Request) ([]byte, http.Header, error) {
	if wait := c.throttler.Remaining(op.Group); wait > 0 {
		c.logger.Debug().
			Str("action", op.Action).
			Str("group", string(op.Group)).
			Dur("wait", wait).
			Msg("Waiting for throttle slot")
	}
	if err := c.throttler.Wait(ctx, op.Group); err != nil {
		return nil, nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("action", op.Action).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("MWS response received")

	if resp.StatusCode != http.StatusOK {
		return nil, nil, parseErrorResponse(resp.StatusCode, body)
	}

	return body, resp.Header, nil
}
