package types

type GraphNode struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Type        []string `json:"type,omitempty"`
}

type GraphEdge struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Graph is the {nodes, edges} payload served by /api/graph_data and /api/filter_by_hour.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BodyReading is one celestial body's heatmap entry for a single render pass.
type BodyReading struct {
	Name             string   `json:"planet"`
	AzimuthDeg       float64  `json:"azimuth"`
	AltitudeDeg      float64  `json:"altitude"`
	DistanceAU       float64  `json:"distance_au"`
	Color            string   `json:"color"`     // #RRGGBB
	Intensity        float64  `json:"intensity"` // 0..1
	IsCombust        bool     `json:"is_combust"`
	Sign             string   `json:"sign,omitempty"`
	IsRetrograde     bool     `json:"is_retrograde,omitempty"`
	CombustionStatus string   `json:"combustion_status,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

type ProjectedPoint struct {
	X, Y    float64
	BaseY   float64 // y before overlap adjustment
	Size    float64
	Reading BodyReading
}

type HourRef struct {
	URI   string `json:"uri"`
	Label string `json:"label,omitempty"`
}

type Connection struct {
	RelationshipType string `json:"relationshipType"`
	TargetNode       struct {
		Label string `json:"label"`
	} `json:"targetNode"`
}

type Aspect struct {
	Planet1         string  `json:"planet1"`
	Planet2         string  `json:"planet2"`
	Aspect          string  `json:"aspect"`
	AngularDistance float64 `json:"angular_distance"`
}

// Angle is a chart angle or house cusp within its sign.
type Angle struct {
	Degree         float64 `json:"degree"`
	Sign           string  `json:"sign"`
	AbsoluteDegree float64 `json:"absolute_degree"`
}

type House struct {
	Angle
	Planets []HousePlanet `json:"planets"`
}

type HousePlanet struct {
	Name string `json:"name"`
}

// PlanetPosition is a body's ecliptic position. Pointer fields are absent
// from some payloads.
type PlanetPosition struct {
	Longitude    float64  `json:"longitude"`
	Sign         string   `json:"sign"`
	Degree       float64  `json:"degree"`
	IsRetrograde bool     `json:"is_retrograde"`
	IsStationary bool     `json:"is_stationary"`
	DailyMotion  float64  `json:"daily_motion"`
	DistanceAU   *float64 `json:"distance_au,omitempty"`
}

type MoonData struct {
	Phase         string   `json:"phase"`
	PhaseAngle    *float64 `json:"phase_angle"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
	DistanceAU    *float64 `json:"distance_au,omitempty"`
	Declination   *float64 `json:"declination"`
	IsOutOfBounds bool     `json:"is_out_of_bounds"`
}

// Ephemeris is the subset of /api/geolocation_ephemeris this module reads.
type Ephemeris struct {
	Latitude             float64            `json:"latitude"`
	Longitude            float64            `json:"longitude"`
	CurrentTime          string             `json:"current_time"`
	CurrentDate          string             `json:"current_date"`
	Sunrise              string             `json:"sunrise"`
	Sunset               string             `json:"sunset"`
	UTCTime              string             `json:"utc_time"`
	CurrentPlanetaryHour any                `json:"current_planetary_hour"`
	RulingPlanet         string             `json:"ruling_planet"`
	DayRulingPlanet      string             `json:"day_ruling_planet"`
	Aspects              []Aspect           `json:"aspects,omitempty"`
	Heatmap              []BodyReading      `json:"heatmap_data"`
	Hour                 HourRef            `json:"-"`
	Connections          []Connection       `json:"-"`

	Angles    map[string]Angle          `json:"angles,omitempty"`
	Houses    map[string]House          `json:"houses,omitempty"` // keyed "1".."12"
	Planets   map[string]PlanetPosition `json:"planetary_positions,omitempty"`
	Distances map[string]float64        `json:"planetary_distances,omitempty"`
	Moon      *MoonData                 `json:"moon_data,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
