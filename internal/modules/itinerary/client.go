// README: HTTP client for the itinerary backend (trip details and PDF export).
package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nomad/internal/modules/selection"
)

var ErrEmptyBaseURL = errors.New("itinerary: base url is empty")

// StatusError is returned when the backend answers outside the 2xx range.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: HTTP error! status: %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP error! status: %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Recorder receives one observation per backend call. Outcome is the status code or "error".
type Recorder interface {
	ObserveBackend(endpoint, outcome string, elapsed time.Duration)
}

type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	// Timeout applies to every call when positive. Zero leaves requests unbounded.
	Timeout  time.Duration
	Recorder Recorder
}

type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	recorder Recorder
}

func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrEmptyBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: base, http: hc, timeout: cfg.Timeout, recorder: cfg.Recorder}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestItinerary posts the query and the current session token. A nil token is sent as null.
func (c *Client) RequestItinerary(ctx context.Context, query *selection.Set, token *string) (*Response, error) {
	if token != nil && *token == "" {
		token = nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, TripDetailsPath, tripDetailsRequest{Query: nonNilQuery(query), Token: token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("itinerary: read response: %w", err)
	}
	return decodeResponse(raw)
}

// RequestDownload posts the query to the export endpoint and returns the document bytes.
func (c *Client) RequestDownload(ctx context.Context, query *selection.Set) (*Document, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.do(ctx, DownloadPath, downloadRequest{Query: nonNilQuery(query)})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("itinerary: read document: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &Document{Data: data, ContentType: contentType, Filename: DownloadFilename}, nil
}

// nonNilQuery makes a missing query serialise as an empty object rather than null.
func nonNilQuery(q *selection.Set) *selection.Set {
	if q == nil {
		return &selection.Set{}
	}
	return q
}

func (c *Client) do(ctx context.Context, path string, payload any) (*http.Response, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("itinerary: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("itinerary: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(path, "error", start)
		return nil, fmt.Errorf("itinerary: POST %s: %w", path, err)
	}
	c.observe(path, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	return resp, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) observe(path, outcome string, start time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveBackend(path, outcome, time.Since(start))
}
