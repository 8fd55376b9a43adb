package mws

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"sync"
)

// MockTransport substitutes canned XML fixture files for live HTTP calls.
// Each request consumes the next file in the configured list; when the
// list is exhausted it starts over from the beginning. Install it on a
// client with WithMock.
type MockTransport struct {
	fsys  fs.FS
	files []string

	mu   sync.Mutex
	next int
	// Requests records every request served, oldest first, so tests can
	// assert on what would have gone over the wire.
	requests []*http.Request
}

// NewMockTransport creates a mock transport serving the given files from
// fsys in order.
func NewMockTransport(fsys fs.FS, files ...string) *MockTransport {
	return &MockTransport{fsys: fsys, files: files}
}

// RoundTrip implements http.RoundTripper. No network I/O is performed.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.files) == 0 {
		return nil, ErrMockExhausted
	}

	name := m.files[m.next%len(m.files)]
	m.next++
	m.requests = append(m.requests, req)

	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Header:        http.Header{"Content-Type": []string{"text/xml"}},
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		Request:       req,
	}, nil
}

// Served returns how many fixture responses have been handed out.
func (m *MockTransport) Served() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next
}

// LastRequest returns the most recent request, or nil if none were served.
func (m *MockTransport) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
