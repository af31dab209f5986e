package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// RecordedRequest captures one request received by the test server
type RecordedRequest struct {
	At        time.Time
	Path      string
	Method    string
	UserAgent string
}

// Server is an httptest.Server that records every request it receives.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest

	status int
	body   []byte
	delay  time.Duration
}

// ServerOption customizes the behavior of a test server
type ServerOption func(*Server)

// WithStatus makes the server answer every request with the given status code
func WithStatus(status int) ServerOption {
	return func(s *Server) { s.status = status }
}

// WithBody sets the response body
func WithBody(body string) ServerOption {
	return func(s *Server) { s.body = []byte(body) }
}

// WithDelay makes the server sleep before answering, for timeout tests
func WithDelay(delay time.Duration) ServerOption {
	return func(s *Server) { s.delay = delay }
}

// StartServer starts a recording HTTP test server. It is shut down
// automatically when the test finishes.
func StartServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()

	s := &Server{
		status: http.StatusOK,
		body:   []byte("ok"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			At:        time.Now(),
			Path:      r.URL.Path,
			Method:    r.Method,
			UserAgent: r.UserAgent(),
		})
		s.mu.Unlock()

		if s.delay > 0 {
			time.Sleep(s.delay)
		}
		w.WriteHeader(s.status)
		w.Write(s.body)
	}))
	t.Cleanup(s.Close)

	return s
}

// Requests returns a copy of all requests received so far
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns the number of requests received so far
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
