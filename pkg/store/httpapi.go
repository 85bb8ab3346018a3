package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tabula/pkg/board"
	"tabula/pkg/httputil"
	"tabula/pkg/observability"
)

// HTTPStore talks to a remote board server's REST API (the one served by
// internal/server). Transient failures (network errors, 5xx responses) are
// retried with backoff; 4xx responses map onto the store sentinel errors.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	closed  bool
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		if c != nil {
			s.client = c
		}
	}
}

// NewHTTPStore creates a store client for a board server at baseURL, e.g.
// "http://localhost:8418".
func NewHTTPStore(baseURL string, opts ...HTTPOption) *HTTPStore {
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// boardsResponse mirrors the server's GET /api/v1/boards payload.
type boardsResponse struct {
	Boards []string `json:"boards"`
}

// boardResponse mirrors the server's GET /api/v1/boards/{board} payload.
type boardResponse struct {
	BoardID string       `json:"board_id"`
	Items   []board.Item `json:"items"`
}

// errorResponse mirrors the server's error payload.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *HTTPStore) ListBoards(ctx context.Context) ([]string, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out boardsResponse
	if err := s.do(ctx, http.MethodGet, "/api/v1/boards", nil, &out); err != nil {
		return nil, err
	}
	return out.Boards, nil
}

func (s *HTTPStore) ListItems(ctx context.Context, boardID string) ([]board.Item, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out boardResponse
	err := s.do(ctx, http.MethodGet, s.boardPath(boardID), nil, &out)
	if err != nil {
		// A board nobody has written to yet is empty, not missing.
		if errors.Is(err, ErrNotFound) {
			return []board.Item{}, nil
		}
		return nil, err
	}
	return out.Items, nil
}

func (s *HTTPStore) CreateItem(ctx context.Context, boardID string, it board.Item) error {
	if s.closed {
		return ErrClosed
	}
	return s.do(ctx, http.MethodPost, s.boardPath(boardID)+"/items", it, nil)
}

func (s *HTTPStore) UpdateItem(ctx context.Context, boardID, itemID string, p board.Patch) (*board.Item, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out board.Item
	path := s.boardPath(boardID) + "/items/" + url.PathEscape(itemID)
	if err := s.do(ctx, http.MethodPatch, path, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPStore) DeleteItem(ctx context.Context, boardID, itemID string) error {
	if s.closed {
		return ErrClosed
	}
	path := s.boardPath(boardID) + "/items/" + url.PathEscape(itemID)
	return s.do(ctx, http.MethodDelete, path, nil, nil)
}

// Close marks the client closed. There is no connection state to release.
func (s *HTTPStore) Close() error {
	s.closed = true
	return nil
}

func (s *HTTPStore) boardPath(boardID string) string {
	return "/api/v1/boards/" + url.PathEscape(boardID)
}

// do issues one API call with retry. Request bodies are JSON-encoded; a
// non-nil out receives the decoded response body.
func (s *HTTPStore) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	return httputil.RetryWithBackoff(ctx, func() error {
		return s.doOnce(ctx, method, path, body, out)
	})
}

// doOnce issues a single HTTP request. Network failures and 5xx responses
// come back wrapped as retryable; 4xx responses map to sentinel errors and
// fail immediately.
func (s *HTTPStore) doOnce(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	observability.HTTP().OnRequest(ctx, method, req.URL.Host, path)
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, method, req.URL.Host, path, err)
		return &httputil.RetryableError{Err: err}
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, method, req.URL.Host, path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: apiError(resp)}
	default:
		return apiError(resp)
	}
}

// apiError turns an error response into a sentinel-wrapped error so callers
// can test with errors.Is.
func apiError(resp *http.Response) error {
	var payload errorResponse
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, ErrExists)
	default:
		return fmt.Errorf("board server: %s (HTTP %d)", msg, resp.StatusCode)
	}
}

var _ Store = (*HTTPStore)(nil)
