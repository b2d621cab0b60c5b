// Package dashboard wires the chart API, the graph view, the sky overlay and
// the artifact store into the flows the dashboard offers: boot, locate and
// re-filter.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/generation"
	"github.com/MalithGihan/skygraph/internal/graphview"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/internal/skyoverlay"
	"github.com/MalithGihan/skygraph/internal/store"
	"github.com/MalithGihan/skygraph/internal/validate"
	"github.com/MalithGihan/skygraph/pkg/types"
)

const (
	SVGWidth  = 1200
	SVGHeight = 800
)

// Chart is the slice of the chart API the dashboard uses.
type Chart interface {
	graphview.Source
	Ephemeris(ctx context.Context, at types.Coordinates) (types.Ephemeris, error)
	SearchTopics(ctx context.Context, q string) ([]types.Topic, error)
	Terminal(ctx context.Context, query string) (string, error)
}

// Outcome is everything one locate produced.
type Outcome struct {
	JobID     string             `json:"jobId"`
	Ephemeris types.Ephemeris    `json:"ephemeris"`
	Network   *graphview.Network `json:"network,omitempty"`
	Sky       *skyoverlay.Result `json:"sky,omitempty"`
	HourError string             `json:"hourError,omitempty"`
	SkyError  string             `json:"skyError,omitempty"`

	// missingHour is set when the ephemeris carried no hour reference.
	missingHour error
}

type Dashboard struct {
	chart     Chart
	viewer    *graphview.Viewer
	sky       *skyoverlay.Renderer
	container *skyoverlay.Container
	store     *store.FS
	log       *zap.Logger
	metrics   *metrics.Collector
	validate  *validator.Validate

	skyGen   generation.Counter
	renderMu sync.Mutex // one canvas per container
	mu       sync.Mutex // guards last and every staleness check that mutates the view
	last     *Outcome
}

type Deps struct {
	Chart     Chart
	Viewer    *graphview.Viewer
	Sky       *skyoverlay.Renderer
	Container *skyoverlay.Container
	Store     *store.FS
	Log       *zap.Logger
	Metrics   *metrics.Collector
}

func New(d Deps) *Dashboard {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		chart:     d.Chart,
		viewer:    d.Viewer,
		sky:       d.Sky,
		container: d.Container,
		store:     d.Store,
		log:       log.Named("dashboard"),
		metrics:   d.Metrics,
		validate:  validator.New(),
	}
}

func (d *Dashboard) Viewer() *graphview.Viewer { return d.viewer }

func (d *Dashboard) Container() *skyoverlay.Container { return d.container }

func (d *Dashboard) Store() *store.FS { return d.store }

// Boot shows the full graph, as on first page load.
func (d *Dashboard) Boot(ctx context.Context) error {
	_, err := d.viewer.LoadFullGraph(ctx)
	return err
}

func (d *Dashboard) LoadFullGraph(ctx context.Context) error { return d.Boot(ctx) }

// Refresh fetches the ephemeris for at, filters the graph by the hour it
// names and paints the sky overlay from its readings. The hour filter and
// the overlay are independent: either may fail without stopping the other.
// Only an ephemeris failure is returned as an error.
//
// When locates overlap the last one issued wins. A superseded locate is
// dropped before it filters the graph or touches the container background.
func (d *Dashboard) Refresh(ctx context.Context, at types.Coordinates) (*Outcome, error) {
	if err := d.validate.Struct(at); err != nil {
		return nil, apperr.Precondition("locate", err)
	}
	tok := d.skyGen.Next()
	log := d.log.With(zap.Float64("latitude", at.Latitude), zap.Float64("longitude", at.Longitude))

	e, err := d.chart.Ephemeris(ctx, at)
	if err != nil {
		log.Error("ephemeris fetch failed", zap.Error(err))
		return nil, err
	}
	out := &Outcome{JobID: store.NewJobID(), Ephemeris: e}

	hour, hourErr := validate.HourURI(e)
	d.mu.Lock()
	if !d.skyGen.Current(tok) {
		d.mu.Unlock()
		return nil, d.stale(log, out)
	}
	var graphTok generation.Token
	if hourErr == nil {
		graphTok = d.viewer.Session().Begin()
	}
	d.mu.Unlock()

	if hourErr != nil {
		log.Error("current hour unavailable", zap.Error(hourErr))
		out.missingHour, out.HourError = hourErr, hourErr.Error()
	} else if n, err := d.viewer.FilterByHourAt(ctx, graphTok, hour); err != nil {
		out.HourError = err.Error()
	} else {
		out.Network = n
	}

	d.renderMu.Lock()
	res, err := d.sky.Bake(d.container, e.Heatmap)
	d.renderMu.Unlock()
	if err != nil {
		out.SkyError = err.Error()
	} else {
		out.Sky = res
	}

	d.mu.Lock()
	if !d.skyGen.Current(tok) {
		d.mu.Unlock()
		return nil, d.stale(log, out)
	}
	if out.Sky != nil {
		d.sky.Apply(d.container, out.Sky)
	}
	d.last = out
	d.mu.Unlock()

	d.persist(out)
	return out, nil
}

func (d *Dashboard) stale(log *zap.Logger, out *Outcome) error {
	log.Info("discarding superseded locate", zap.String("job", out.JobID))
	d.metrics.ObserveStale("sky")
	return apperr.Stale("locate")
}

// Locate is Refresh for the console. A payload without an hour reference is
// the command's error; any other hour filter failure is logged and the
// ephemeris is still returned for the report.
func (d *Dashboard) Locate(ctx context.Context, at types.Coordinates) (types.Ephemeris, error) {
	out, err := d.Refresh(ctx, at)
	if err != nil {
		return types.Ephemeris{}, err
	}
	if out.missingHour != nil {
		return out.Ephemeris, out.missingHour
	}
	if out.HourError != "" {
		d.log.Warn("hour filter failed, reporting ephemeris anyway", zap.String("error", out.HourError))
	}
	return out.Ephemeris, nil
}

func (d *Dashboard) Last() *Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

func (d *Dashboard) Terminal(ctx context.Context, query string) (string, error) {
	return d.chart.Terminal(ctx, query)
}

func (d *Dashboard) Search(ctx context.Context, q string) ([]types.Topic, error) {
	return d.chart.SearchTopics(ctx, q)
}

// SnapshotSVG writes the network on display as an SVG artifact of a new job.
func (d *Dashboard) SnapshotSVG() (string, []byte, error) {
	n := d.viewer.Session().Network()
	if n == nil {
		return "", nil, apperr.Precondition("snapshot", errors.New("no network rendered"))
	}
	var buf bytes.Buffer
	if err := graphview.RenderSVG(&buf, n, SVGWidth, SVGHeight); err != nil {
		return "", nil, err
	}
	id := store.NewJobID()
	if d.store != nil {
		if _, err := d.store.Put(id, store.GraphSVG, buf.Bytes()); err != nil {
			return "", nil, err
		}
	}
	return id, buf.Bytes(), nil
}

func (d *Dashboard) persist(out *Outcome) {
	if d.store == nil {
		return
	}
	if out.Sky != nil {
		if _, err := d.store.Put(out.JobID, store.SkyPNG, out.Sky.PNG); err != nil {
			d.log.Warn("saving sky overlay failed", zap.String("job", out.JobID), zap.Error(err))
		}
	}
	if out.Network != nil {
		var buf bytes.Buffer
		if err := graphview.RenderSVG(&buf, out.Network, SVGWidth, SVGHeight); err == nil {
			if _, err := d.store.Put(out.JobID, store.GraphSVG, buf.Bytes()); err != nil {
				d.log.Warn("saving graph snapshot failed", zap.String("job", out.JobID), zap.Error(err))
			}
		}
	}
}
