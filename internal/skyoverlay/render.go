// Package skyoverlay paints celestial body readings as glowing discs over a
// stylised horizon and bakes the result into a container background.
package skyoverlay

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"

	"git.sr.ht/~sbinet/gg"
	"go.uber.org/zap"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/pkg/types"
)

const (
	viewName       = "sky"
	horizonCurve   = 20.0
	observerRadius = 10.0
	glowScale      = 2.0
)

type Result struct {
	Points     []types.ProjectedPoint `json:"points"`
	Warnings   []string               `json:"warnings,omitempty"`
	PNG        []byte                 `json:"-"`
	Background Background             `json:"background"`

	combust []warning
}

type warning struct {
	planet, msg string
}

type Renderer struct {
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewRenderer(log *zap.Logger, m *metrics.Collector) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("skyoverlay"), metrics: m}
}

// Render bakes readings on c, sets the PNG as its background and announces
// combust warnings.
func (r *Renderer) Render(c *Container, readings []types.BodyReading) (*Result, error) {
	res, err := r.Bake(c, readings)
	if err != nil {
		return nil, err
	}
	r.Apply(c, res)
	return res, nil
}

// Bake draws readings on a canvas sized for c and encodes it. Neither the
// container background nor the combust warnings are touched; Apply does
// that once the caller knows the result is still wanted. The canvas is
// released before Bake returns.
func (r *Renderer) Bake(c *Container, readings []types.BodyReading) (*Result, error) {
	if c == nil {
		err := apperr.Precondition("skyoverlay.render", errors.New("container not found"))
		r.log.Error("render aborted", zap.Error(err))
		r.metrics.ObserveRender(viewName, err)
		return nil, err
	}
	if c.Width <= 0 || c.Height <= 0 {
		err := apperr.Precondition("skyoverlay.render", fmt.Errorf("container %q has no size", c.ID))
		r.log.Error("render aborted", zap.Error(err))
		r.metrics.ObserveRender(viewName, err)
		return nil, err
	}

	cv := c.acquire()
	defer c.release()

	frame := Frame{Width: float64(c.Width), Height: float64(c.Height)}
	dc := cv.dc
	dc.Push()
	dc.Scale(c.PixelRatio, c.PixelRatio)
	drawGuides(dc, frame)
	dc.Pop()

	sz := newSizer(readings)
	points := make([]types.ProjectedPoint, len(readings))
	for i, rd := range readings {
		points[i] = frame.Project(rd)
		points[i].Size = sz.size(rd)
	}
	Separate(points)

	for _, p := range points {
		drawGlow(cv.img, p, c.PixelRatio)
	}

	dc.Push()
	dc.Scale(c.PixelRatio, c.PixelRatio)
	dc.SetDash()
	for _, p := range points {
		drawDisc(dc, p)
	}
	dc.Pop()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		r.metrics.ObserveRender(viewName, err)
		return nil, fmt.Errorf("skyoverlay: encode png: %w", err)
	}
	r.log.Debug("sky overlay baked",
		zap.String("container", c.ID), zap.Int("bodies", len(points)), zap.Int("bytes", buf.Len()))

	combust := combustWarnings(readings)
	msgs := make([]string, len(combust))
	for i, w := range combust {
		msgs[i] = w.msg
	}
	return &Result{
		Points:     points,
		Warnings:   msgs,
		combust:    combust,
		PNG:        buf.Bytes(),
		Background: coverBackground("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
	}, nil
}

// Apply installs a baked result as c's background, logs its warnings and
// counts the render.
func (r *Renderer) Apply(c *Container, res *Result) {
	c.SetBackground(res.Background)
	for _, w := range res.combust {
		r.log.Warn(w.msg, zap.String("planet", w.planet))
	}
	r.metrics.ObserveCombust(len(res.combust))
	r.metrics.ObserveRender(viewName, nil)
}

// drawGuides draws the dashed observer marker and the horizon parabola.
func drawGuides(dc *gg.Context, f Frame) {
	ox, oy := f.Observer()
	dc.SetColor(guideColor)
	dc.SetLineWidth(1)
	dc.SetDash(5, 5)

	dc.DrawCircle(ox, oy, observerRadius)
	dc.Stroke()

	half := f.Width / 2
	dc.MoveTo(0, oy+horizonCurve)
	for x := 0.0; x <= f.Width; x += 10 {
		dx := x - ox
		dc.LineTo(x, oy+horizonCurve*dx*dx/(half*half))
	}
	dc.Stroke()
}

// drawGlow paints p's radial glow on its own layer and screens it onto img.
// Coordinates are converted to device pixels here since gg evaluates
// gradients in device space.
func drawGlow(img *image.RGBA, p types.ProjectedPoint, ratio float64) {
	x, y := p.X*ratio, p.Y*ratio
	radius := p.Size * glowScale * ratio
	if radius <= 0 || math.IsNaN(radius) {
		return
	}
	b := img.Bounds()
	layer := image.NewRGBA(b)
	dc := gg.NewContextForRGBA(layer)

	base := bodyColor(p.Reading)
	core := 0.35 + 0.65*clamp01(p.Reading.Intensity)
	grad := gg.NewRadialGradient(x, y, 0, x, y, radius)
	grad.AddColorStop(0, withAlpha(base, core))
	grad.AddColorStop(0.4, withAlpha(base, core/2))
	grad.AddColorStop(1, withAlpha(base, 0))
	dc.SetFillStyle(grad)
	dc.DrawCircle(x, y, radius)
	dc.Fill()

	area := image.Rect(
		int(math.Floor(x-radius)), int(math.Floor(y-radius)),
		int(math.Ceil(x+radius))+1, int(math.Ceil(y+radius))+1,
	)
	screen(img, layer, area)
}

func drawDisc(dc *gg.Context, p types.ProjectedPoint) {
	dc.SetColor(labelColor)
	dc.SetLineWidth(1)
	dc.DrawCircle(p.X, p.Y, p.Size)
	dc.Stroke()
	dc.DrawString(fmt.Sprintf("%s (%.2f AU)", p.Reading.Name, p.Reading.DistanceAU), p.X+p.Size+5, p.Y)
}

func combustWarnings(readings []types.BodyReading) []warning {
	var out []warning
	for _, rd := range readings {
		if !rd.IsCombust {
			continue
		}
		out = append(out, warning{rd.Name, fmt.Sprintf("Warning: %s is combust. Avoid critical actions.", rd.Name)})
		if rd.Name == "Moon" {
			out = append(out, warning{rd.Name, "Additional Warning: The Moon is combust. Exercise caution in decision-making."})
		}
	}
	return out
}
