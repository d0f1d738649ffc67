// Package solr is the HTTP client for the remote full-text search engine.
package solr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/engine"
	"github.com/zeit-online/contentapi/internal/metrics"
)

// Config holds search engine connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client queries the search engine. Every request is a single attempt.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a search engine client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &Client{http: c, logger: logger}
}

type wireResponse struct {
	Response struct {
		NumFound int64            `json:"numFound"`
		Start    int64            `json:"start"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
	FacetCounts  struct {
		FacetDates  map[string]any `json:"facet_dates"`
		FacetFields map[string]any `json:"facet_fields"`
	} `json:"facet_counts"`
}

// Query runs path (e.g. "content/search") with params and decodes the JSON
// response. Any failure is reported as domain.ErrServiceUnavailable.
func (c *Client) Query(ctx context.Context, path string, params url.Values) (*engine.Result, error) {
	q := cloneValues(params)
	q.Set("wt", "json")

	body, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}

	var wire wireResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrServiceUnavailable, path, err)
	}

	docs := make([]engine.Doc, len(wire.Response.Docs))
	for i, d := range wire.Response.Docs {
		docs[i] = engine.Doc(d)
	}
	return &engine.Result{
		Found:        wire.Response.NumFound,
		Start:        wire.Response.Start,
		Docs:         docs,
		Highlighting: wire.Highlighting,
		FacetDates:   wire.FacetCounts.FacetDates,
		FacetFields:  wire.FacetCounts.FacetFields,
	}, nil
}

// Raw runs path with params and returns the undecoded body.
func (c *Client) Raw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.get(ctx, path, params)
}

// Ping runs an empty content search.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, "content/search", url.Values{"q": {"*:*"}, "rows": {"0"}})
	return err
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	action := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		action = path[i+1:]
	}
	start := time.Now()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get("/" + strings.TrimLeft(path, "/"))

	metrics.SearchRequestDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(action, "error").Inc()
		c.logger.Warn("search engine request failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrServiceUnavailable, path, err)
	}
	if resp.IsError() {
		metrics.SearchRequestsTotal.WithLabelValues(action, "error").Inc()
		c.logger.Warn("search engine error status",
			zap.String("path", path), zap.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("%w: %s: status %d", domain.ErrServiceUnavailable, path, resp.StatusCode())
	}
	metrics.SearchRequestsTotal.WithLabelValues(action, "ok").Inc()
	return resp.Body(), nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
