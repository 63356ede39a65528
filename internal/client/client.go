// Package client is a small HTTP client for the clubperf API, used by the
// coachreport CLI to submit results to a running server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/clubperf/internal/adapters/wire"
	"github.com/okian/clubperf/internal/domain/types"
)

// DefaultTimeout bounds each request when no option is given.
const DefaultTimeout = 10 * time.Second

// ErrUnhealthy is returned when the health endpoint does not answer 200.
var ErrUnhealthy = errors.New("service unhealthy")

// APIError is a non-success response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// Client calls one clubperf server.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the server answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// SubmitSamples posts results for a club to POST /samples.
func (c *Client) SubmitSamples(ctx context.Context, clubID string, samples []wire.Sample) (types.IngestResult, error) {
	body := struct {
		ClubID  string        `json:"club_id"`
		Samples []wire.Sample `json:"samples"`
	}{ClubID: clubID, Samples: samples}

	var res types.IngestResult
	if err := c.call(ctx, http.MethodPost, "/samples", body, http.StatusAccepted, &res); err != nil {
		return types.IngestResult{}, err
	}
	return res, nil
}

// Leaderboard fetches GET /leaderboard for a club. Empty stationID covers
// every station; limit 0 uses the server default.
func (c *Client) Leaderboard(ctx context.Context, clubID, stationID string, limit int) ([]types.LeaderboardStation, error) {
	q := url.Values{"club_id": {clubID}}
	if stationID != "" {
		q.Set("station_id", stationID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var board []types.LeaderboardStation
	if err := c.call(ctx, http.MethodGet, "/leaderboard?"+q.Encode(), nil, http.StatusOK, &board); err != nil {
		return nil, err
	}
	return board, nil
}

func (c *Client) call(ctx context.Context, method, path string, in any, want int, out any) error {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
