// Package httpapi serves the dashboard over HTTP and streams view events to
// websocket clients.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/console"
	"github.com/MalithGihan/skygraph/internal/dashboard"
	"github.com/MalithGihan/skygraph/internal/graphview"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/internal/store"
	"github.com/MalithGihan/skygraph/pkg/types"
)

type Server struct {
	dash     *dashboard.Dashboard
	console  *console.Console
	hub      *Hub
	metrics  *metrics.Collector
	log      *zap.Logger
	validate *validator.Validate
}

type hourRequest struct {
	HourName string `json:"hour_name" validate:"required"`
}

type consoleRequest struct {
	Command string `json:"command" validate:"required"`
}

func NewServer(d *dashboard.Dashboard, c *console.Console, hub *Hub, m *metrics.Collector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{dash: d, console: c, hub: hub, metrics: m, log: log.Named("http"), validate: validator.New()}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "skygraph"})
	})

	r.Route("/api/view", func(r chi.Router) {
		r.Get("/graph", s.loadFullGraph)
		r.Get("/current", s.current)
		r.Post("/hour", s.filterByHour)
		r.Get("/graph.svg", s.graphSVG)
		r.Post("/physics", s.physics)
		r.Post("/locate", s.locate)
	})
	r.Get("/api/console", s.consolePane)
	r.Post("/api/console", s.consoleExec)
	r.Get("/api/search", s.search)
	r.Get("/artifacts/{id}/{name}", s.artifact)
	if s.hub != nil {
		r.Get("/ws", s.hub.ServeHTTP)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	return r
}

func (s *Server) loadFullGraph(w http.ResponseWriter, r *http.Request) {
	n, err := s.dash.Viewer().LoadFullGraph(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) current(w http.ResponseWriter, _ *http.Request) {
	sess := s.dash.Viewer().Session()
	state, lastErr := sess.State()
	out := map[string]any{
		"state":   state,
		"physics": sess.PhysicsEnabled(),
		"network": sess.Network(),
	}
	if lastErr != nil {
		out["error"] = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) filterByHour(w http.ResponseWriter, r *http.Request) {
	var req hourRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.dash.Viewer().FilterByHour(r.Context(), req.HourName)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	n := s.dash.Viewer().Session().Network()
	if n == nil {
		s.fail(w, apperr.Precondition("graph.svg", errors.New("no network rendered")))
		return
	}
	width := queryInt(r, "width", dashboard.SVGWidth)
	height := queryInt(r, "height", dashboard.SVGHeight)
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := graphview.RenderSVG(w, n, width, height); err != nil {
		s.log.Error("svg render failed", zap.Error(err))
	}
}

func (s *Server) physics(w http.ResponseWriter, _ *http.Request) {
	s.dash.Viewer().Session().DoubleClick()
	writeJSON(w, http.StatusOK, map[string]any{
		"physics":  true,
		"windowMs": graphview.PhysicsWindow.Milliseconds(),
	})
}

func (s *Server) locate(w http.ResponseWriter, r *http.Request) {
	var req types.Coordinates
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.dash.Refresh(r.Context(), req)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": out,
		"report":  console.Report(out.Ephemeris),
	})
}

func (s *Server) consolePane(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"lines": s.console.Pane().Lines()})
}

func (s *Server) consoleExec(w http.ResponseWriter, r *http.Request) {
	var req consoleRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": s.console.Execute(r.Context(), req.Command)})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	topics, err := s.dash.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if topics == nil {
		topics = []types.Topic{}
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) artifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.dash.Store().Get(chi.URLParam(r, "id"), name)
	if err != nil {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}
	switch name {
	case store.SkyPNG:
		w.Header().Set("Content-Type", "image/png")
	case store.GraphSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.Write(data)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.fail(w, apperr.Precondition("decode request", err))
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.fail(w, apperr.Precondition("validate request", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]any{"error": err.Error(), "kind": apperr.KindOf(err)})
}

// observe counts requests by route pattern once chi has matched them.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		if s.metrics != nil {
			s.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		}
		s.log.Debug("request",
			zap.String("method", r.Method), zap.String("route", route),
			zap.Int("status", ww.Status()), zap.Duration("took", time.Since(started)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return def
}
