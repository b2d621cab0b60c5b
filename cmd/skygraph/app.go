package main

import (
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/config"
	"github.com/MalithGihan/skygraph/internal/console"
	"github.com/MalithGihan/skygraph/internal/dashboard"
	"github.com/MalithGihan/skygraph/internal/graphview"
	"github.com/MalithGihan/skygraph/internal/logging"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/internal/skyoverlay"
	"github.com/MalithGihan/skygraph/internal/store"
	"github.com/MalithGihan/skygraph/internal/upstream"
)

// app holds everything a command needs, wired from configuration.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Collector
	session *graphview.Session
	dash    *dashboard.Dashboard
	console *console.Console
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Environment)
	if err != nil {
		return nil, err
	}
	st, err := store.New(cfg.DataRoot)
	if err != nil {
		return nil, err
	}

	m := metrics.NewCollector("skygraph")
	client := upstream.New(cfg.Upstream, upstream.WithLogger(log), upstream.WithMetrics(m))
	sess := graphview.NewSession()
	container := skyoverlay.NewContainer("networkContainer",
		int(cfg.Overlay.Width), int(cfg.Overlay.Height), cfg.Overlay.PixelRatio)
	dash := dashboard.New(dashboard.Deps{
		Chart:     client,
		Viewer:    graphview.NewViewer(client, sess, log, m),
		Sky:       skyoverlay.NewRenderer(log, m),
		Container: container,
		Store:     st,
		Log:       log,
		Metrics:   m,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		session: sess,
		dash:    dash,
		console: console.New(dash, console.StaticLocator{Coords: cfg.Observer}, log),
	}, nil
}

func (a *app) close() { _ = a.log.Sync() }
