package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector("skygraph")
	c.ObserveUpstream("graph_data", time.Now(), nil)
	c.ObserveUpstream("graph_data", time.Now(), errors.New("500"))
	c.ObserveRender("graph", nil)
	c.ObserveStale("graph")
	c.ObserveCombust(2)
	c.ObserveCombust(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamRequests.WithLabelValues("graph_data", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.UpstreamRequests.WithLabelValues("graph_data", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Renders.WithLabelValues("graph", "rendered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StaleDiscarded.WithLabelValues("graph")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CombustWarnings))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveUpstream("graph_data", time.Now(), nil)
		c.ObserveRender("sky", nil)
		c.ObserveStale("sky")
		c.ObserveCombust(1)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	c := NewCollector("skygraph")
	c.ObserveRender("sky", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skygraph_renders_total{outcome="rendered",view="sky"} 1`)
}
