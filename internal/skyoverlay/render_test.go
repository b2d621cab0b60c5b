package skyoverlay

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/metrics"
	"github.com/MalithGihan/skygraph/pkg/types"
)

func sampleReadings() []types.BodyReading {
	return []types.BodyReading{
		{Name: "Sun", AzimuthDeg: 120, AltitudeDeg: 35, DistanceAU: 0.99, Color: "#F2FF00", Intensity: 1},
		{Name: "Moon", AzimuthDeg: 122, AltitudeDeg: 33, DistanceAU: 0.0026, Intensity: 0.4, IsCombust: true},
		{Name: "Mars", AzimuthDeg: 250, AltitudeDeg: -20, DistanceAU: 1.8, Color: "#F5004F", Intensity: 0.7, IsCombust: true},
		{Name: "Saturn", AzimuthDeg: 10, AltitudeDeg: 130, DistanceAU: 9.6, Color: "not-a-colour", Intensity: 0.2},
	}
}

func newTestRenderer() (*Renderer, *observer.ObservedLogs, *metrics.Collector) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewCollector("test")
	return NewRenderer(zap.New(core), m), logs, m
}

func TestRenderNilContainer(t *testing.T) {
	r, logs, m := newTestRenderer()
	res, err := r.Render(nil, sampleReadings())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
	assert.Equal(t, 1, logs.FilterMessage("render aborted").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("sky", "error")))
}

func TestRenderEmptyContainer(t *testing.T) {
	r, _, _ := newTestRenderer()
	_, err := r.Render(NewContainer("c", 0, 300, 1), sampleReadings())
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
}

func TestRenderBakesBackground(t *testing.T) {
	r, _, m := newTestRenderer()
	c := NewContainer("networkContainer", 300, 200, 2)

	res, err := r.Render(c, sampleReadings())
	require.NoError(t, err)
	assert.Equal(t, 0, c.LiveCanvases())

	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(600, 400), img.Bounds().Size())

	bg := c.Background()
	assert.Equal(t, res.Background, bg)
	assert.Equal(t, "cover", bg.Size)
	assert.Equal(t, "center", bg.Position)
	assert.Equal(t, "no-repeat", bg.Repeat)
	require.True(t, strings.HasPrefix(bg.Image, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(bg.Image, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, res.PNG, raw)

	require.Len(t, res.Points, 4)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("sky", "rendered")))
}

func TestRenderIsRepeatable(t *testing.T) {
	r, _, _ := newTestRenderer()
	c := NewContainer("c", 240, 160, 1)
	first, err := r.Render(c, sampleReadings())
	require.NoError(t, err)
	second, err := r.Render(c, sampleReadings())
	require.NoError(t, err)

	for i := range first.Points {
		assert.Equal(t, first.Points[i].X, second.Points[i].X)
		assert.Equal(t, first.Points[i].BaseY, second.Points[i].BaseY)
	}
	assert.Equal(t, first.PNG, second.PNG)
	assert.Equal(t, 0, c.LiveCanvases())
}

func TestContainerHoldsOneCanvas(t *testing.T) {
	c := NewContainer("c", 10, 10, 1)
	a := c.acquire()
	b := c.acquire()
	assert.NotSame(t, a, b)
	assert.Equal(t, 1, c.LiveCanvases())
	c.release()
	assert.Equal(t, 0, c.LiveCanvases())
}

func TestCombustWarnings(t *testing.T) {
	r, logs, m := newTestRenderer()
	res, err := r.Render(NewContainer("c", 120, 80, 1), sampleReadings())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Warning: Moon is combust. Avoid critical actions.",
		"Additional Warning: The Moon is combust. Exercise caution in decision-making.",
		"Warning: Mars is combust. Avoid critical actions.",
	}, res.Warnings)

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 3)
	assert.Equal(t, "Moon", warns[1].ContextMap()["planet"])
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CombustWarnings))
}

func TestBakeLeavesContainerUntouched(t *testing.T) {
	r, logs, m := newTestRenderer()
	c := NewContainer("networkContainer", 120, 80, 1)

	res, err := r.Bake(c, sampleReadings())
	require.NoError(t, err)
	assert.Len(t, res.Warnings, 3)
	assert.True(t, strings.HasPrefix(res.Background.Image, "data:image/png;base64,"))
	assert.Empty(t, c.Background().Image)
	assert.Equal(t, 0, c.LiveCanvases())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CombustWarnings))

	r.Apply(c, res)
	assert.Equal(t, res.Background, c.Background())
	assert.Equal(t, 3, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Renders.WithLabelValues("sky", "rendered")))
}

func TestGlowBrightensBackground(t *testing.T) {
	r, _, _ := newTestRenderer()
	c := NewContainer("c", 200, 200, 1)
	res, err := r.Render(c, []types.BodyReading{
		{Name: "Sun", AzimuthDeg: 0, AltitudeDeg: 45, DistanceAU: 1, Color: "#ff0000", Intensity: 1},
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(res.PNG))
	require.NoError(t, err)
	p := res.Points[0]
	red, _, _, alpha := img.At(int(p.X), int(p.Y)).RGBA()
	assert.Greater(t, alpha, uint32(0))
	assert.Greater(t, red, uint32(0))
}

func TestScreenBlend(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(dst.Pix, []uint8{128, 0, 255, 255, 10, 20, 30, 40})
	copy(src.Pix, []uint8{128, 255, 0, 255, 0, 0, 0, 0})

	screen(dst, src, dst.Bounds())
	assert.Equal(t, []uint8{192, 255, 255, 255, 10, 20, 30, 40}, dst.Pix)
}

func TestBodyColorFallback(t *testing.T) {
	assert.Equal(t, uint8(0xF5), bodyColor(types.BodyReading{Name: "Mars"}).R)
	assert.Equal(t, uint8(0x24), bodyColor(types.BodyReading{Name: "Saturn", Color: "bogus"}).R)
	assert.Equal(t, defaultBodyColor, bodyColor(types.BodyReading{Name: "Ceres"}))
	assert.Equal(t, uint8(0x12), bodyColor(types.BodyReading{Name: "Mars", Color: "#123456"}).R)
}
