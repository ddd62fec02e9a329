package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/courtvision/courtvision/internal/nba"
)

const maxBodyBytes = 8 << 20

// Source is the data contract consumed by the dashboard pages.
type Source interface {
	B2BRankings(ctx context.Context, rng nba.DateRange) ([]nba.B2BRanking, error)
	TeamRankings(ctx context.Context, rng nba.DateRange) ([]nba.TeamRanking, error)
	RestRankings(ctx context.Context, rng nba.DateRange) ([]nba.RestRanking, error)
	PlayerStints(ctx context.Context, rng nba.DateRange) ([]nba.PlayerStint, error)
}

// Observer receives the outcome of every upstream call.
type Observer interface {
	ObserveFetch(endpoint, outcome string, elapsed time.Duration)
}

// Config holds client settings.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Observer   Observer
}

// Client calls the analytics REST API. It never retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "statsapi")),
		observer:   cfg.Observer,
	}
}

// B2BRankings fetches back-to-back counts.
func (c *Client) B2BRankings(ctx context.Context, rng nba.DateRange) ([]nba.B2BRanking, error) {
	return fetchList[nba.B2BRanking](ctx, c, B2BRankingsEndpoint, rng)
}

// TeamRankings fetches games played rankings.
func (c *Client) TeamRankings(ctx context.Context, rng nba.DateRange) ([]nba.TeamRanking, error) {
	return fetchList[nba.TeamRanking](ctx, c, TeamRankingsEndpoint, rng)
}

// RestRankings fetches rest spans. Records are returned as sent; deduplication is
// left to the caller.
func (c *Client) RestRankings(ctx context.Context, rng nba.DateRange) ([]nba.RestRanking, error) {
	return fetchList[nba.RestRanking](ctx, c, RestRankingsEndpoint, rng)
}

// PlayerStints fetches stint rows.
func (c *Client) PlayerStints(ctx context.Context, rng nba.DateRange) ([]nba.PlayerStint, error) {
	return fetchList[nba.PlayerStint](ctx, c, PlayerStintsEndpoint, rng)
}

// URL builds the request URL for an endpoint and range.
func (c *Client) URL(ep Endpoint, rng nba.DateRange) string {
	return c.baseURL + ep.Path + "?" + ep.Query(rng)
}

func fetchList[T any](ctx context.Context, c *Client, ep Endpoint, rng nba.DateRange) ([]T, error) {
	start := time.Now()
	raw, err := c.get(ctx, ep, rng)
	if err != nil {
		c.observe(ep, "error", start)
		return nil, err
	}
	records, err := decodeList[T](ep, raw)
	if err != nil {
		c.observe(ep, "error", start)
		return nil, err
	}
	c.observe(ep, "ok", start)
	return records, nil
}

func (c *Client) get(ctx context.Context, ep Endpoint, rng nba.DateRange) ([]byte, error) {
	target := c.URL(ep, rng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, wrapError(ep.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", slog.String("endpoint", ep.Name), slog.Any("error", err))
		return nil, wrapError(ep.Name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("upstream status", slog.String("endpoint", ep.Name), slog.Int("status", resp.StatusCode))
		return nil, statusError(ep.Name, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrapError(ep.Name, err)
	}
	return body, nil
}

func decodeList[T any](ep Endpoint, body []byte) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, wrapError(ep.Name, fmt.Errorf("decode %s: %w", ep.Name, err))
	}
	// The backend reports its own validation and query failures inside a 200 body.
	if rawErr, ok := envelope["error"]; ok {
		var msg string
		if err := json.Unmarshal(rawErr, &msg); err == nil && msg != "" {
			return nil, &FetchError{Endpoint: ep.Name, Status: http.StatusOK, Message: msg}
		}
	}
	field, ok := envelope[ep.Field]
	if !ok || len(field) == 0 || string(field) == "null" {
		return []T{}, nil
	}
	// A failed SQL call comes back as {"rankings": {"error": "..."}}.
	if field[0] == '{' {
		var nested struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(field, &nested); err == nil && nested.Error != "" {
			return nil, &FetchError{Endpoint: ep.Name, Status: http.StatusOK, Message: nested.Error}
		}
		return nil, wrapError(ep.Name, errors.New("decode "+ep.Name+": unexpected object"))
	}
	records := []T{}
	if err := json.Unmarshal(field, &records); err != nil {
		return nil, wrapError(ep.Name, fmt.Errorf("decode %s: %w", ep.Name, err))
	}
	return records, nil
}

func (c *Client) observe(ep Endpoint, outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveFetch(ep.Name, outcome, time.Since(start))
}

var _ Source = (*Client)(nil)
