package console

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/MalithGihan/skygraph/pkg/types"
)

// bodyOrder is the order the chart API computes bodies in.
var bodyOrder = []string{"Sun", "Venus", "Mercury", "Moon", "Saturn", "Jupiter", "Mars", "Uranus", "Neptune", "Pluto"}

var angleOrder = []string{"ascendant", "descendant", "midheaven", "ic"}

// Report formats an ephemeris payload as the text report shown after a
// location lookup. Section headings start with "===".
func Report(e types.Ephemeris) []string {
	var out []string
	add := func(format string, a ...any) { out = append(out, fmt.Sprintf(format, a...)) }
	heading := func(title string) { out = append(out, "", "=== "+title+" ===") }

	heading("MAGIC HOUR INFORMATION")
	add("> Current Planetary Hour: %s", orDefault(planetaryHour(e.CurrentPlanetaryHour), "Unknown"))
	add("> Magic Hour Name: %s", orDefault(e.Hour.Label, "N/A"))
	add("> Magic Hour Ruler: %s", orDefault(e.RulingPlanet, "Unknown"))
	if len(e.Connections) > 0 {
		add("> Magical Correspondences:")
		for _, c := range e.Connections {
			rel := strings.ToUpper(strings.ReplaceAll(c.RelationshipType, "_", " "))
			add("  - [%s] %s", rel, orDefault(c.TargetNode.Label, "Unnamed Connection"))
		}
	}
	add("> Day Ruling Planet: %s", orDefault(e.DayRulingPlanet, "Unknown"))

	heading("TIME INFORMATION")
	add("> Local Time: %s", orDefault(e.CurrentTime, "N/A"))
	add("> Sunrise: %s, Sunset: %s", orDefault(e.Sunrise, "N/A"), orDefault(e.Sunset, "N/A"))
	add("> Current UTC Time: %s", orDefault(e.UTCTime, "N/A"))

	heading("CHART ANGLES")
	for _, name := range angleOrder {
		if a, ok := e.Angles[name]; ok {
			add("> %s: %s", strings.ToUpper(name[:1])+name[1:], placement(a))
		}
	}

	heading("HOUSES AND OCCUPANCY")
	for i := 1; i <= 12; i++ {
		h, ok := e.Houses[strconv.Itoa(i)]
		if !ok {
			continue
		}
		occupancy := " - Empty house"
		if len(h.Planets) > 0 {
			names := make([]string, len(h.Planets))
			for j, p := range h.Planets {
				names[j] = p.Name
			}
			occupancy = " - Occupied by: " + strings.Join(names, ", ")
		}
		add("> House %d: %s%s", i, placement(h.Angle), occupancy)
	}

	heading("KEY PLANETARY ASPECTS")
	if len(e.Aspects) == 0 {
		add("> No significant aspects found.")
	}
	var order []string
	groups := map[string][]types.Aspect{}
	for _, a := range e.Aspects {
		if _, ok := groups[a.Aspect]; !ok {
			order = append(order, a.Aspect)
		}
		groups[a.Aspect] = append(groups[a.Aspect], a)
	}
	for _, kind := range order {
		out = append(out, "")
		add("> %ss:", kind)
		for _, a := range groups[kind] {
			add("  - %s to %s (%s°)", a.Planet1, a.Planet2, trimFloat(a.AngularDistance))
		}
	}

	heading("MOON-SPECIFIC PROPERTIES")
	moon := types.MoonData{}
	if e.Moon != nil {
		moon = *e.Moon
	}
	add("> Phase: %s", orDefault(moon.Phase, "Unknown"))
	add("> Phase Angle: %s°", optFloat(moon.PhaseAngle))
	moonAU := moon.DistanceAU
	if moonAU == nil {
		moonAU = distanceAU(e, "Moon")
	}
	add("> Distance: %s km (%s AU)", optFloat(moon.DistanceKm), optFloat(moonAU))
	add("> Declination: %s°", optFloat(moon.Declination))
	if moon.IsOutOfBounds {
		add("> The Moon is Out of Bounds (OOB)")
	} else {
		add("> The Moon is within bounds.")
	}

	heading("PLANETARY DISTANCES FROM EARTH / OBSERVER")
	for _, name := range bodies(e.Planets, e.Distances) {
		add("> %s: %s AU", name, optFloat(distanceAU(e, name)))
	}

	heading("PLANETARY POSITIONS SUMMARY")
	for _, name := range bodies(e.Planets, nil) {
		p := e.Planets[name]
		var flags string
		if p.IsRetrograde {
			flags += " (Retrograde)"
		}
		if p.IsStationary {
			flags += " (Stationary)"
		}
		motion := ""
		if p.DailyMotion != 0 {
			motion = fmt.Sprintf(" [%s°/day]", trimFloat(p.DailyMotion))
		}
		add("> %s: %s° %s%s (%s° total)%s", name, trimFloat(p.Degree), p.Sign, flags, trimFloat(p.Longitude), motion)
	}

	heading("END OF REPORT")
	return out
}

// distanceAU prefers the position's own distance over planetary_distances.
func distanceAU(e types.Ephemeris, name string) *float64 {
	if p, ok := e.Planets[name]; ok && p.DistanceAU != nil {
		return p.DistanceAU
	}
	if d, ok := e.Distances[name]; ok {
		return &d
	}
	return nil
}

// bodies returns the names keyed in either map, known bodies first in
// bodyOrder and any others after them alphabetically.
func bodies(positions map[string]types.PlanetPosition, distances map[string]float64) []string {
	seen := map[string]bool{}
	for n := range positions {
		seen[n] = true
	}
	for n := range distances {
		seen[n] = true
	}
	var out []string
	for _, n := range bodyOrder {
		if seen[n] {
			out = append(out, n)
			delete(seen, n)
		}
	}
	var rest []string
	for n := range seen {
		rest = append(rest, n)
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func placement(a types.Angle) string {
	return fmt.Sprintf("%s° %s (%s° total)", trimFloat(a.Degree), a.Sign, trimFloat(a.AbsoluteDegree))
}

func planetaryHour(v any) string {
	switch h := v.(type) {
	case nil:
		return ""
	case float64:
		return trimFloat(h)
	default:
		return fmt.Sprint(h)
	}
}

func optFloat(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return trimFloat(*f)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
