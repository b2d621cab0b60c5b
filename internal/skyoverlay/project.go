package skyoverlay

import (
	"math"

	"github.com/MalithGihan/skygraph/pkg/types"
)

const (
	// Pairs closer than this horizontally are separated vertically.
	overlapThreshold = 60.0
	offsetPerAU      = 10.0
	maxOffset        = 30.0
)

// Frame is the logical (CSS pixel) drawing area.
type Frame struct {
	Width, Height float64
}

// Observer is the fixed reference point bodies are projected around.
func (f Frame) Observer() (x, y float64) {
	return f.Width / 2, f.Height * 0.7
}

func (f Frame) azimuthRadius() float64  { return f.Width * 0.4 }
func (f Frame) altitudeRadius() float64 { return f.Height * 0.4 }

func ClampAltitude(deg float64) float64 {
	return math.Max(-90, math.Min(90, deg))
}

// Project places r on screen. Y and BaseY are equal until Separate runs.
func (f Frame) Project(r types.BodyReading) types.ProjectedPoint {
	ox, oy := f.Observer()
	x := ox + f.azimuthRadius()*math.Sin(r.AzimuthDeg*math.Pi/180)
	y := oy - f.altitudeRadius()*ClampAltitude(r.AltitudeDeg)/90
	return types.ProjectedPoint{X: x, Y: y, BaseY: y, Reading: r}
}

// Separate nudges horizontally close pairs apart vertically: the farther
// body moves up and the nearer moves down by the same amount. Equal
// distances leave both where they are. X is never changed.
func Separate(points []types.ProjectedPoint) {
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			a, b := &points[i], &points[j]
			if math.Abs(a.X-b.X) >= overlapThreshold {
				continue
			}
			da, db := a.Reading.DistanceAU, b.Reading.DistanceAU
			half := math.Min(math.Abs(da-db)*offsetPerAU, maxOffset) / 2
			switch {
			case da > db:
				a.Y -= half
				b.Y += half
			case db > da:
				b.Y -= half
				a.Y += half
			}
		}
	}
}

// Diameters in kilometres.
var diameters = map[string]float64{
	"Sun":     1392000,
	"Mercury": 4879,
	"Venus":   12104,
	"Earth":   12742,
	"Mars":    6779,
	"Jupiter": 139820,
	"Saturn":  116460,
	"Uranus":  50724,
	"Neptune": 49244,
	"Pluto":   2376,
	"Moon":    3475,
}

var minDiameter, maxDiameter = func() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range diameters {
		lo, hi = math.Min(lo, d), math.Max(hi, d)
	}
	return lo, hi
}()

// sizer blends a log-scaled distance term (nearer is bigger) with the
// body's physical diameter.
type sizer struct {
	minLog, maxLog float64
}

func newSizer(readings []types.BodyReading) sizer {
	if len(readings) == 0 {
		return sizer{}
	}
	s := sizer{minLog: math.Inf(1), maxLog: math.Inf(-1)}
	for _, r := range readings {
		l := math.Log10(r.DistanceAU + 1)
		s.minLog, s.maxLog = math.Min(s.minLog, l), math.Max(s.maxLog, l)
	}
	return s
}

func (s sizer) size(r types.BodyReading) float64 {
	const (
		minDist, maxDist = 5.0, 25.0
		minDiam, maxDiam = 5.0, 20.0
	)
	distSize := maxDist
	if span := s.maxLog - s.minLog; span > 0 {
		distSize = (s.maxLog-math.Log10(r.DistanceAU+1))/span*(maxDist-minDist) + minDist
	}
	diamSize := minDiam
	if d, ok := diameters[r.Name]; ok {
		diamSize = (d-minDiameter)/(maxDiameter-minDiameter)*(maxDiam-minDiam) + minDiam
	}
	return 0.6*distSize + 0.4*diamSize
}
