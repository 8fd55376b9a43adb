package mws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Common errors returned by the client.
var (
	// ErrInvalidConfig indicates missing or invalid store credentials.
	ErrInvalidConfig = errors.New("invalid mws store configuration")

	// ErrMissingParam indicates a required request parameter was not set.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrNoToken indicates a pagination call was made without a NextToken.
	ErrNoToken = errors.New("no next token available")

	// ErrMockExhausted indicates the mock transport has no fixture files.
	ErrMockExhausted = errors.New("no mock fixtures configured")
)

// APIError represents an MWS ErrorResponse.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
	RequestID  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("mws API error: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsThrottled checks if the error indicates server-side throttling.
func (e *APIError) IsThrottled() bool {
	return e.Code == "RequestThrottled" || e.Code == "QuotaExceeded"
}

// IsInvalidAccess checks if the error indicates bad credentials or a
// signature mismatch.
func (e *APIError) IsInvalidAccess() bool {
	switch e.Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "AccessToFeedProcessingResultDenied":
		return true
	}
	return false
}

// IsNotFound checks if the error indicates an unknown resource id.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404 || strings.HasPrefix(e.Code, "NonExistent")
}

// parseErrorResponse turns a non-200 response body into an *APIError when
// the body carries an MWS ErrorResponse document, or a plain error
// otherwise.
func parseErrorResponse(statusCode int, body []byte) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err == nil {
		if errElem := doc.FindElement("//*[local-name()='Error']"); errElem != nil {
			apiErr := &APIError{StatusCode: statusCode}
			if e := errElem.FindElement("./Type"); e != nil {
				apiErr.Type = strings.TrimSpace(e.Text())
			}
			if e := errElem.FindElement("./Code"); e != nil {
				apiErr.Code = strings.TrimSpace(e.Text())
			}
			if e := errElem.FindElement("./Message"); e != nil {
				apiErr.Message = strings.TrimSpace(e.Text())
			}
			if e := doc.FindElement("//*[local-name()='RequestID']"); e != nil {
				apiErr.RequestID = strings.TrimSpace(e.Text())
			} else if e := doc.FindElement("//*[local-name()='RequestId']"); e != nil {
				apiErr.RequestID = strings.TrimSpace(e.Text())
			}
			return apiErr
		}
	}
	return fmt.Errorf("mws request failed with status %d: %s", statusCode, string(body))
}
