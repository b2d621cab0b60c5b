package graphview

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/generation"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/internal/validate"
	"github.com/MalithGihan/skygraph/pkg/types"
)

// Source is the part of the chart API the graph views read from.
type Source interface {
	GraphData(ctx context.Context) (types.Graph, error)
	FilterByHour(ctx context.Context, hour string) (types.Graph, error)
}

type Viewer struct {
	src     Source
	session *Session
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewViewer(src Source, session *Session, log *zap.Logger, m *metrics.Collector) *Viewer {
	if session == nil {
		session = NewSession()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Viewer{src: src, session: session, log: log, metrics: m}
}

func (v *Viewer) Session() *Session { return v.session }

// LoadFullGraph fetches the whole graph and replaces the network on display.
// On any failure the previous network stays as it was.
func (v *Viewer) LoadFullGraph(ctx context.Context) (*Network, error) {
	tok := v.session.Begin()
	g, err := v.src.GraphData(ctx)
	return v.finish(tok, ViewFull, g, err, FullGraphPolicy())
}

// FilterByHour fetches the subgraph around hour and replaces the network
// on display with it.
func (v *Viewer) FilterByHour(ctx context.Context, hour string) (*Network, error) {
	if hour == "" {
		err := apperr.Precondition("filter_by_hour", errors.New("no hour selected"))
		v.log.Error("filter by hour aborted", zap.Error(err))
		return nil, err
	}
	return v.FilterByHourAt(ctx, v.session.Begin(), hour)
}

// FilterByHourAt is FilterByHour for a load whose token the caller already
// took from Session().Begin(), so the load ranks from when the caller
// started rather than from when the hour became known.
func (v *Viewer) FilterByHourAt(ctx context.Context, tok generation.Token, hour string) (*Network, error) {
	if hour == "" {
		return v.finish(tok, ViewHour, types.Graph{},
			apperr.Precondition("filter_by_hour", errors.New("no hour selected")), Policy{})
	}
	g, err := v.src.FilterByHour(ctx, hour)
	return v.finish(tok, ViewHour, g, err, HourPolicy(hour))
}

// FetchCurrentHourAndFilter filters by the hour referenced in e.
func (v *Viewer) FetchCurrentHourAndFilter(ctx context.Context, e types.Ephemeris) (*Network, error) {
	hour, err := validate.HourURI(e)
	if err != nil {
		v.log.Error("current hour unavailable", zap.Error(err))
		return nil, err
	}
	return v.FilterByHour(ctx, hour)
}

func (v *Viewer) finish(tok generation.Token, view string, g types.Graph, err error, p Policy) (*Network, error) {
	log := v.log.With(zap.String("view", view), zap.Uint64("generation", uint64(tok)))
	if err != nil {
		if ferr := v.session.Fail(tok, err); ferr != nil {
			log.Info("discarding superseded graph failure", zap.Error(err))
			v.metrics.ObserveStale(view)
			return nil, err
		}
		log.Error("graph load failed", zap.Error(err))
		v.metrics.ObserveRender(view, err)
		return nil, err
	}

	n := Build(g, p)
	if err := v.session.Commit(tok, n); err != nil {
		log.Info("discarding superseded graph response", zap.String("network", n.ID))
		v.metrics.ObserveStale(view)
		return nil, err
	}
	log.Debug("network updated",
		zap.String("network", n.ID), zap.Int("nodes", len(n.Nodes)), zap.Int("edges", len(n.Edges)))
	v.metrics.ObserveRender(view, nil)
	return n.Clone(), nil
}
