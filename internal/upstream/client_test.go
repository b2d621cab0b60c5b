package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/config"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/pkg/types"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.Default().Upstream
	cfg.URL = srv.URL
	cfg.Timeout = 2 * time.Second
	return New(cfg, WithLogger(zaptest.NewLogger(t)), WithMetrics(metrics.NewCollector("test")))
}

func TestGraphData(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/graph_data", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"nodes":[{"id":"b","label":"Mars"}],"edges":[]}`))
	}))
	g, err := c.GraphData(context.Background())
	require.NoError(t, err)
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Mars", g.Nodes[0].Label)
}

func TestFilterByHourPostsHourName(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/filter_by_hour", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "h1", body["hour_name"])
		w.Write([]byte(`{"nodes":[{"id":"h1","label":"1st Hour"}],"edges":[],"message":"ok"}`))
	}))
	g, err := c.FilterByHour(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "h1", g.Nodes[0].ID)
}

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, apperr.ErrTransport},
		{"bad request", http.StatusBadRequest, `{"error":"Missing hour_name parameter"}`, apperr.ErrTransport},
		{"missing edges", http.StatusOK, `{"nodes":[]}`, apperr.ErrMalformed},
		{"error body with 200", http.StatusOK, `{"error":"no data"}`, apperr.ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			_, err := c.GraphData(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNetworkErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	cfg := config.Default().Upstream
	cfg.URL = srv.URL
	_, err := New(cfg).GraphData(context.Background())
	assert.ErrorIs(t, err, apperr.ErrTransport)
}

func TestEphemeris(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var at types.Coordinates
		require.NoError(t, json.NewDecoder(r.Body).Decode(&at))
		assert.InDelta(t, 48.85, at.Latitude, 1e-9)
		w.Write([]byte(`{"heatmap_data":[{"planet":"Sun","azimuth":180,"altitude":20,"distance_au":0.98,"color":"#F2FF00","intensity":0.5,"is_combust":false}],"hourInfo":{"uri":"h3"}}`))
	}))
	e, err := c.Ephemeris(context.Background(), types.Coordinates{Latitude: 48.85, Longitude: 2.35})
	require.NoError(t, err)
	assert.Equal(t, "h3", e.Hour.URI)
	require.Len(t, e.Heatmap, 1)
	assert.Equal(t, "Sun", e.Heatmap[0].Name)
}

func TestSearchAndTerminal(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/search_topics":
			assert.Equal(t, "moon phase", r.URL.Query().Get("q"))
			w.Write([]byte(`[{"id":"t1","name":"Moon Phase"}]`))
		case "/api/terminal":
			assert.Equal(t, "who rules?", r.URL.Query().Get("query"))
			w.Write([]byte(`{"response":"Mars rules this hour."}`))
		default:
			http.NotFound(w, r)
		}
	}))
	topics, err := c.SearchTopics(context.Background(), "moon phase")
	require.NoError(t, err)
	assert.Equal(t, []types.Topic{{ID: "t1", Name: "Moon Phase"}}, topics)

	out, err := c.Terminal(context.Background(), "who rules?")
	require.NoError(t, err)
	assert.Equal(t, "Mars rules this hour.", out)
}

func TestTerminalMissingResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	_, err := c.Terminal(context.Background(), "x")
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	for i := 0; i < 5; i++ {
		_, err := c.GraphData(context.Background())
		require.Error(t, err)
	}
	_, err := c.GraphData(context.Background())
	assert.ErrorIs(t, err, apperr.ErrTransport)
	assert.Equal(t, int32(5), calls.Load())
}
