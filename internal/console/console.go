// Package console interprets the one-line commands typed into the dashboard
// terminal and keeps its output pane.
package console

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/pkg/types"
)

// Backend carries out what the commands ask for.
type Backend interface {
	LoadFullGraph(ctx context.Context) error
	// Locate fetches the ephemeris for c and refreshes the views from it.
	Locate(ctx context.Context, c types.Coordinates) (types.Ephemeris, error)
	Terminal(ctx context.Context, query string) (string, error)
}

// "lat, lon" with an optional trailing dotted version triple.
var coordsRe = regexp.MustCompile(`^-?\d+(\.\d+)?,\s*-?\d+(\.\d+)?(?:,\s*\d+\.\d+\.\d+)?$`)

const (
	cmdDefault     = "default"
	cmdCurrentHour = "current hour"
)

type Console struct {
	backend Backend
	locator Locator
	pane    *Pane
	log     *zap.Logger
}

func New(b Backend, loc Locator, log *zap.Logger) *Console {
	if loc == nil {
		loc = StaticLocator{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{backend: b, locator: loc, pane: NewPane(0), log: log.Named("console")}
}

func (c *Console) Pane() *Pane { return c.pane }

// Execute runs one command line. It echoes the input, then appends the
// acknowledgement and any results or errors to the pane, and returns the
// lines it appended.
func (c *Console) Execute(ctx context.Context, input string) []string {
	var out []string
	emit := func(lines ...string) {
		c.pane.Append(lines...)
		out = append(out, lines...)
	}
	emit("> " + input)

	cmd := strings.TrimSpace(input)
	switch {
	case coordsRe.MatchString(cmd):
		c.coordinates(ctx, cmd, emit)
	case strings.EqualFold(cmd, cmdDefault):
		emit("Showing default graph view")
		if err := c.backend.LoadFullGraph(ctx); err != nil {
			c.fail(emit, "load full graph", err)
		}
	case strings.EqualFold(cmd, cmdCurrentHour):
		c.currentHour(ctx, emit)
	default:
		resp, err := c.backend.Terminal(ctx, input)
		if err != nil {
			c.fail(emit, "terminal query", err)
			return out
		}
		emit(resp)
	}
	return out
}

func (c *Console) coordinates(ctx context.Context, cmd string, emit func(...string)) {
	parts := strings.Split(cmd, ",")
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		emit("Unknown graph command.")
		return
	}
	emit(fmt.Sprintf("Processing data for Latitude: %s, Longitude: %s", trimFloat(lat), trimFloat(lon)))
	e, err := c.backend.Locate(ctx, types.Coordinates{Latitude: lat, Longitude: lon})
	if err != nil {
		c.fail(emit, "locate", err)
		return
	}
	emit(Report(e)...)
}

func (c *Console) currentHour(ctx context.Context, emit func(...string)) {
	pos, err := c.locator.Locate(ctx)
	if err != nil {
		c.log.Error("geolocation failed", zap.Error(err))
		emit("> Could not fetch geolocation.")
		return
	}
	emit("Processing current hour...")
	e, err := c.backend.Locate(ctx, pos)
	if err != nil {
		c.fail(emit, "current hour", err)
		return
	}
	emit("> Current hour filtering applied.")
	emit(Report(e)...)
}

func (c *Console) fail(emit func(...string), what string, err error) {
	c.log.Error(what+" failed", zap.Error(err))
	emit("> Error: " + err.Error())
}
