package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MalithGihan/skygraph/pkg/types"
)

func ptr(f float64) *float64 { return &f }

func TestReport(t *testing.T) {
	e := types.Ephemeris{
		CurrentTime:          "14:05",
		Sunrise:              "06:01",
		Sunset:               "18:12",
		UTCTime:              "08:35",
		CurrentPlanetaryHour: float64(9),
		RulingPlanet:         "Mars",
		DayRulingPlanet:      "Saturn",
		Hour:                 types.HourRef{URI: "h9", Label: "Ninth Hour"},
		Aspects: []types.Aspect{
			{Planet1: "Sun", Planet2: "Moon", Aspect: "Conjunction", AngularDistance: 2.5},
			{Planet1: "Mars", Planet2: "Venus", Aspect: "Trine", AngularDistance: 119},
			{Planet1: "Mercury", Planet2: "Sun", Aspect: "Conjunction", AngularDistance: 4},
		},
		Angles: map[string]types.Angle{
			"midheaven": {Degree: 3.1, Sign: "Taurus", AbsoluteDegree: 33.1},
			"ascendant": {Degree: 12.5, Sign: "Leo", AbsoluteDegree: 132.5},
		},
		Houses: map[string]types.House{
			"2": {Angle: types.Angle{Degree: 8, Sign: "Virgo", AbsoluteDegree: 158}},
			"1": {
				Angle:   types.Angle{Degree: 12.5, Sign: "Leo", AbsoluteDegree: 132.5},
				Planets: []types.HousePlanet{{Name: "Sun"}, {Name: "Mars"}},
			},
		},
		Moon: &types.MoonData{Phase: "Waxing", PhaseAngle: ptr(97.25), Declination: ptr(-24.1), IsOutOfBounds: true},
		Planets: map[string]types.PlanetPosition{
			"Mars":  {Longitude: 135.2, Sign: "Leo", Degree: 15.2, DailyMotion: 0.6},
			"Sun":   {Longitude: 140, Sign: "Leo", Degree: 20, DistanceAU: ptr(1.01), DailyMotion: 0.98},
			"Pluto": {Longitude: 301.4, Sign: "Aquarius", Degree: 1.4, IsRetrograde: true, IsStationary: true, DailyMotion: -0.005},
		},
		Distances: map[string]float64{"Mars": 1.52, "Sun": 0.99, "Moon": 0.0026},
		Heatmap:   []types.BodyReading{{Name: "Mars", DistanceAU: 9.99}},
	}
	var conn types.Connection
	conn.RelationshipType = "has_color"
	conn.TargetNode.Label = "Red"
	e.Connections = []types.Connection{conn, {RelationshipType: "USES"}}

	want := []string{
		"",
		"=== MAGIC HOUR INFORMATION ===",
		"> Current Planetary Hour: 9",
		"> Magic Hour Name: Ninth Hour",
		"> Magic Hour Ruler: Mars",
		"> Magical Correspondences:",
		"  - [HAS COLOR] Red",
		"  - [USES] Unnamed Connection",
		"> Day Ruling Planet: Saturn",
		"",
		"=== TIME INFORMATION ===",
		"> Local Time: 14:05",
		"> Sunrise: 06:01, Sunset: 18:12",
		"> Current UTC Time: 08:35",
		"",
		"=== CHART ANGLES ===",
		"> Ascendant: 12.5° Leo (132.5° total)",
		"> Midheaven: 3.1° Taurus (33.1° total)",
		"",
		"=== HOUSES AND OCCUPANCY ===",
		"> House 1: 12.5° Leo (132.5° total) - Occupied by: Sun, Mars",
		"> House 2: 8° Virgo (158° total) - Empty house",
		"",
		"=== KEY PLANETARY ASPECTS ===",
		"",
		"> Conjunctions:",
		"  - Sun to Moon (2.5°)",
		"  - Mercury to Sun (4°)",
		"",
		"> Trines:",
		"  - Mars to Venus (119°)",
		"",
		"=== MOON-SPECIFIC PROPERTIES ===",
		"> Phase: Waxing",
		"> Phase Angle: 97.25°",
		"> Distance: N/A km (0.0026 AU)",
		"> Declination: -24.1°",
		"> The Moon is Out of Bounds (OOB)",
		"",
		"=== PLANETARY DISTANCES FROM EARTH / OBSERVER ===",
		"> Sun: 1.01 AU",
		"> Moon: 0.0026 AU",
		"> Mars: 1.52 AU",
		"> Pluto: N/A AU",
		"",
		"=== PLANETARY POSITIONS SUMMARY ===",
		"> Sun: 20° Leo (140° total) [0.98°/day]",
		"> Mars: 15.2° Leo (135.2° total) [0.6°/day]",
		"> Pluto: 1.4° Aquarius (Retrograde) (Stationary) (301.4° total) [-0.005°/day]",
		"",
		"=== END OF REPORT ===",
	}
	assert.Equal(t, want, Report(e))
}

func TestReportDefaults(t *testing.T) {
	lines := Report(types.Ephemeris{})
	assert.Contains(t, lines, "> Current Planetary Hour: Unknown")
	assert.Contains(t, lines, "> Magic Hour Name: N/A")
	assert.Contains(t, lines, "> Sunrise: N/A, Sunset: N/A")
	assert.Contains(t, lines, "> No significant aspects found.")
	assert.Contains(t, lines, "> Phase: Unknown")
	assert.Contains(t, lines, "> Distance: N/A km (N/A AU)")
	assert.Contains(t, lines, "> The Moon is within bounds.")
	assert.NotContains(t, lines, "> Magical Correspondences:")
}

func TestBodiesOrder(t *testing.T) {
	got := bodies(
		map[string]types.PlanetPosition{"Mars": {}, "Chiron": {}, "Sun": {}},
		map[string]float64{"Ceres": 2.7, "Moon": 0.0026},
	)
	assert.Equal(t, []string{"Sun", "Moon", "Mars", "Ceres", "Chiron"}, got)
}
