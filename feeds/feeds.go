// Package feeds implements the MWS Feeds API: submitting feed documents
// and retrieving submission status and processing results.
package feeds

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellerkit/gomws/mws"
)

// The Feeds API is served at the endpoint root under its own version.
const (
	apiPath    = "/Feeds/2009-01-01"
	apiVersion = "2009-01-01"
)

func op(action string) mws.Operation {
	return mws.Operation{Action: action, Path: apiPath, Version: apiVersion, Group: mws.GroupFeeds}
}

// SubmissionInfo describes one feed submission.
type SubmissionInfo struct {
	FeedSubmissionID        string    `xml:"FeedSubmissionId"`
	FeedType                string    `xml:"FeedType"`
	SubmittedDate           time.Time `xml:"SubmittedDate"`
	FeedProcessingStatus    string    `xml:"FeedProcessingStatus"`
	StartedProcessingDate   time.Time `xml:"StartedProcessingDate"`
	CompletedProcessingDate time.Time `xml:"CompletedProcessingDate"`
}

// Done reports whether Amazon has finished processing the submission.
func (s *SubmissionInfo) Done() bool {
	return s.FeedProcessingStatus == "_DONE_"
}

// ListParams narrows a SubmissionList call.
type ListParams struct {
	FeedSubmissionIDs []string
	FeedTypes         []string
	Statuses          []string
	SubmittedFrom     time.Time
	SubmittedTo       time.Time
	MaxCount          int
}

// Client issues Feeds API requests.
type Client struct {
	core   *mws.Client
	logger zerolog.Logger
}

// NewClient creates a feeds client on top of the shared request core.
func NewClient(core *mws.Client, logger zerolog.Logger) *Client {
	return &Client{core: core, logger: logger}
}

// Submit uploads a feed document. The content's MD5 travels with the
// request so Amazon rejects corrupted uploads.
func (c *Client) Submit(ctx context.Context, feedType string, content io.Reader) (*SubmissionInfo, error) {
	if feedType == "" {
		return nil, fmt.Errorf("%w: FeedType", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("FeedType", feedType)
	marketplaceID := c.core.Store().MarketplaceID
	if marketplaceID != "" {
		v.SetList("MarketplaceIdList", "Id", []string{marketplaceID})
	}

	body, err := c.core.DoUpload(ctx, op("SubmitFeed"), v, content, "text/xml; charset=utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to submit feed: %w", err)
	}

	var resp struct {
		XMLName xml.Name `xml:"SubmitFeedResponse"`
		Result  struct {
			Info SubmissionInfo `xml:"FeedSubmissionInfo"`
		} `xml:"SubmitFeedResult"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse SubmitFeed response: %w", err)
	}

	c.logger.Info().
		Str("feed_type", feedType).
		Str("submission_id", resp.Result.Info.FeedSubmissionID).
		Str("status", resp.Result.Info.FeedProcessingStatus).
		Msg("Feed submitted")

	return &resp.Result.Info, nil
}

func (p ListParams) values() mws.Values {
	v := mws.NewValues()
	v.SetList("FeedSubmissionIdList", "Id", p.FeedSubmissionIDs)
	v.SetList("FeedTypeList", "Type", p.FeedTypes)
	v.SetList("FeedProcessingStatusList", "Status", p.Statuses)
	v.SetTime("SubmittedFromDate", p.SubmittedFrom)
	v.SetTime("SubmittedToDate", p.SubmittedTo)
	if p.MaxCount > 0 {
		v.SetInt("MaxCount", p.MaxCount)
	}
	return v
}

// SubmissionList fetches feed submissions matching the params, following
// NextToken pages.
func (c *Client) SubmissionList(ctx context.Context, params ListParams) ([]SubmissionInfo, error) {
	var resp struct {
		XMLName xml.Name `xml:"GetFeedSubmissionListResponse"`
		Result  struct {
			HasToken  bool             `xml:"HasToken"`
			NextToken string           `xml:"NextToken"`
			Infos     []SubmissionInfo `xml:"FeedSubmissionInfo"`
		} `xml:"GetFeedSubmissionListResult"`
	}
	if err := c.core.Do(ctx, op("GetFeedSubmissionList"), params.values(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get feed submission list: %w", err)
	}

	infos := resp.Result.Infos
	token := resp.Result.NextToken
	for resp.Result.HasToken && token != "" {
		v := mws.NewValues()
		v.Set("NextToken", token)

		var next struct {
			XMLName xml.Name `xml:"GetFeedSubmissionListByNextTokenResponse"`
			Result  struct {
				HasToken  bool             `xml:"HasToken"`
				NextToken string           `xml:"NextToken"`
				Infos     []SubmissionInfo `xml:"FeedSubmissionInfo"`
			} `xml:"GetFeedSubmissionListByNextTokenResult"`
		}
		if err := c.core.Do(ctx, op("GetFeedSubmissionListByNextToken"), v, &next); err != nil {
			return nil, fmt.Errorf("failed to get feed submission list by next token: %w", err)
		}
		infos = append(infos, next.Result.Infos...)
		token = next.Result.NextToken
		resp.Result.HasToken = next.Result.HasToken
	}

	return infos, nil
}

// Result downloads the processing report for a completed submission. The
// raw report document is returned; its format depends on the feed type.
// When the response carries a Content-MD5 header the body is verified
// against it, and a mismatch is reported as an error.
func (c *Client) Result(ctx context.Context, submissionID string) ([]byte, error) {
	if submissionID == "" {
		return nil, fmt.Errorf("%w: FeedSubmissionId", mws.ErrMissingParam)
	}

	v := mws.NewValues()
	v.Set("FeedSubmissionId", submissionID)

	body, header, err := c.core.DoRawHeader(ctx, op("GetFeedSubmissionResult"), v)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed submission result: %w", err)
	}
	if err := VerifyContentMD5(body, header.Get("Content-MD5")); err != nil {
		return nil, err
	}
	return body, nil
}

// VerifyContentMD5 checks a downloaded result document against the
// base64 MD5 from the response's Content-MD5 header.
func VerifyContentMD5(body []byte, contentMD5 string) error {
	if contentMD5 == "" {
		return nil
	}
	sum := md5.Sum(body)
	got := base64.StdEncoding.EncodeToString(sum[:])
	if got != contentMD5 {
		return fmt.Errorf("feed result MD5 mismatch: got %s, header says %s", got, contentMD5)
	}
	return nil
}

// Cancel cancels feed submissions that have not started processing.
// With no ids, Amazon cancels every cancellable submission.
func (c *Client) Cancel(ctx context.Context, submissionIDs ...string) (int, error) {
	v := mws.NewValues()
	v.SetList("FeedSubmissionIdList", "Id", submissionIDs)

	var resp struct {
		XMLName xml.Name `xml:"CancelFeedSubmissionsResponse"`
		Result  struct {
			Count int `xml:"Count"`
		} `xml:"CancelFeedSubmissionsResult"`
	}
	if err := c.core.Do(ctx, op("CancelFeedSubmissions"), v, &resp); err != nil {
		return 0, fmt.Errorf("failed to cancel feed submissions: %w", err)
	}
	return resp.Result.Count, nil
}
