package skyoverlay

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MalithGihan/skygraph/pkg/types"
)

// Used when a reading arrives without a usable colour.
var planetColors = map[string]string{
	"Sun":     "#F2FF00",
	"Moon":    "#D7DEDC",
	"Mercury": "#7C00FE",
	"Venus":   "#51CB20",
	"Mars":    "#F5004F",
	"Jupiter": "#072AC8",
	"Saturn":  "#241909",
	"Uranus":  "#769FB6",
	"Neptune": "#F9C7FA",
	"Pluto":   "#D4B9B0",
}

var (
	defaultBodyColor = color.NRGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	labelColor       = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	guideColor       = color.NRGBA{R: 128, G: 128, B: 128, A: 128}
)

func bodyColor(r types.BodyReading) color.NRGBA {
	for _, hex := range []string{r.Color, planetColors[r.Name]} {
		if hex == "" {
			continue
		}
		if c, err := colorful.Hex(hex); err == nil {
			red, green, blue := c.RGB255()
			return color.NRGBA{R: red, G: green, B: blue, A: 0xff}
		}
	}
	return defaultBodyColor
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(clamp01(a)*255 + 0.5)
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
