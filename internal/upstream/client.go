// Package upstream is the HTTP client for the chart API. Calls are never
// retried; a failing call is reported once and the caller aborts.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/config"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/internal/validate"
	"github.com/MalithGihan/skygraph/pkg/types"
)

const maxBody = 8 << 20

type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Collector
	log     *zap.Logger
}

type Option func(*Client)

func WithMetrics(m *metrics.Collector) Option { return func(c *Client) { c.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

func New(cfg config.Upstream, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	b := cfg.Breaker
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "chart-api",
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < b.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= b.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return c
}

// GraphData fetches the complete graph from /api/graph_data.
func (c *Client) GraphData(ctx context.Context) (types.Graph, error) {
	raw, err := c.do(ctx, "graph_data", http.MethodGet, "/api/graph_data", nil)
	if err != nil {
		return types.Graph{}, err
	}
	return validate.Graph("graph_data", raw)
}

// FilterByHour fetches the subgraph around one hour entity.
func (c *Client) FilterByHour(ctx context.Context, hour string) (types.Graph, error) {
	raw, err := c.do(ctx, "filter_by_hour", http.MethodPost, "/api/filter_by_hour",
		map[string]string{"hour_name": hour})
	if err != nil {
		return types.Graph{}, err
	}
	return validate.Graph("filter_by_hour", raw)
}

// Ephemeris posts an observer location to /api/geolocation_ephemeris.
func (c *Client) Ephemeris(ctx context.Context, at types.Coordinates) (types.Ephemeris, error) {
	raw, err := c.do(ctx, "geolocation_ephemeris", http.MethodPost, "/api/geolocation_ephemeris", at)
	if err != nil {
		return types.Ephemeris{}, err
	}
	return validate.Ephemeris("geolocation_ephemeris", raw)
}

func (c *Client) SearchTopics(ctx context.Context, q string) ([]types.Topic, error) {
	raw, err := c.do(ctx, "search_topics", http.MethodGet, "/search/search_topics?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, err
	}
	var out []types.Topic
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperr.Malformed("search_topics", err)
	}
	return out, nil
}

// Terminal forwards a free-form console query to /api/terminal.
func (c *Client) Terminal(ctx context.Context, query string) (string, error) {
	raw, err := c.do(ctx, "terminal", http.MethodGet, "/api/terminal?query="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", apperr.Malformed("terminal", err)
	}
	if out.Response == nil {
		return "", apperr.MissingField("terminal", "response")
	}
	return *out.Response, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body any) ([]byte, error) {
	started := time.Now()
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	})
	c.metrics.ObserveUpstream(endpoint, started, err)
	if err != nil {
		if apperr.KindOf(err) == "" {
			err = apperr.Transport(endpoint, err)
		}
		c.log.Debug("chart api call failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return raw, nil
}
