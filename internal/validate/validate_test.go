package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MalithGihan/skygraph/internal/apperr"
)

func TestGraph(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantErr   bool
		wantNodes int
		wantEdges int
	}{
		{
			name:      "valid",
			body:      `{"nodes":[{"id":"a","label":"MagicHourEntity"},{"id":"b","label":"Mars","description":"red"}],"edges":[{"from":"a","to":"b","label":"HOUR_RULED_BY","properties":{"w":1}}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:      "null endpoints and labels are tolerated",
			body:      `{"nodes":[{"id":"a","label":null}],"edges":[{"from":"a","to":null,"label":null,"properties":null}]}`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{name: "missing edges", body: `{"nodes":[]}`, wantErr: true},
		{name: "missing nodes", body: `{"edges":[]}`, wantErr: true},
		{name: "nodes wrong type", body: `{"nodes":{},"edges":[]}`, wantErr: true},
		{name: "upstream error body", body: `{"error":"Missing hour_name parameter"}`, wantErr: true},
		{name: "not an object", body: `[1,2]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Graph("graph_data", []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrMalformed)
				return
			}
			require.NoError(t, err)
			assert.Len(t, g.Nodes, tt.wantNodes)
			assert.Len(t, g.Edges, tt.wantEdges)
		})
	}
}

func TestGraphUpstreamErrorMessage(t *testing.T) {
	_, err := Graph("filter_by_hour", []byte(`{"error":"boom"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream error: boom")
}

func TestEphemerisHourSources(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantURI string
	}{
		{
			name:    "hourInfo",
			body:    `{"heatmap_data":[],"hourInfo":{"uri":"monsieur:MagicHourEntity/1st_Hour_of_Sun"}}`,
			wantURI: "monsieur:MagicHourEntity/1st_Hour_of_Sun",
		},
		{
			name:    "neo4j_data fallback",
			body:    `{"heatmap_data":[],"neo4j_data":{"hour":{"uri":"h2","label":"2nd Hour"},"connections":[{"relationshipType":"HOUR_RULED_BY","targetNode":{"label":"Mars"}}]}}`,
			wantURI: "h2",
		},
		{
			name:    "hourInfo wins",
			body:    `{"heatmap_data":[],"hourInfo":{"uri":"h1"},"neo4j_data":{"hour":{"uri":"h2"}}}`,
			wantURI: "h1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Ephemeris("ephemeris", []byte(tt.body))
			require.NoError(t, err)
			uri, err := HourURI(e)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURI, uri)
		})
	}
}

func TestEphemerisReadings(t *testing.T) {
	body := `{
		"current_time":"21:04:00",
		"ruling_planet":"Mars",
		"heatmap_data":[
			{"planet":"Moon","azimuth":120.5,"altitude":33.1,"distance_au":0.0026,"color":"#D7DEDC","intensity":0,"is_combust":true},
			{"planet":"Mars","azimuth":200,"altitude":-10,"distance_au":1.52,"color":null,"intensity":null,"is_combust":null}
		]
	}`
	e, err := Ephemeris("ephemeris", []byte(body))
	require.NoError(t, err)
	require.Len(t, e.Heatmap, 2)
	assert.Equal(t, "Moon", e.Heatmap[0].Name)
	assert.True(t, e.Heatmap[0].IsCombust)
	assert.InDelta(t, 1.52, e.Heatmap[1].DistanceAU, 1e-9)
	assert.Equal(t, "", e.Heatmap[1].Color)
	assert.Equal(t, "Mars", e.RulingPlanet)

	_, err = HourURI(e)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

func TestEphemerisRejectsIncompleteReading(t *testing.T) {
	_, err := Ephemeris("ephemeris", []byte(`{"heatmap_data":[{"planet":"Sun","azimuth":10}]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
	assert.Contains(t, err.Error(), "/heatmap_data/0")
}

func TestEphemerisChartSections(t *testing.T) {
	body := `{
		"heatmap_data":[],
		"angles":{"ascendant":{"degree":12.5,"sign":"Leo","absolute_degree":132.5}},
		"houses":{"1":{"degree":12.5,"sign":"Leo","absolute_degree":132.5,"planets":[{"name":"Sun"}]}},
		"planetary_positions":{"Sun":{"longitude":140,"sign":"Leo","degree":20,"is_retrograde":false,"daily_motion":0.98}},
		"planetary_distances":{"Sun":1.01,"Moon":0.0026},
		"moon_data":{"phase":"Waxing","phase_angle":97.25,"declination":-24.1,"is_out_of_bounds":true}
	}`
	e, err := Ephemeris("ephemeris", []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "Leo", e.Angles["ascendant"].Sign)
	require.Len(t, e.Houses["1"].Planets, 1)
	assert.Equal(t, "Sun", e.Houses["1"].Planets[0].Name)
	assert.InDelta(t, 132.5, e.Houses["1"].AbsoluteDegree, 1e-9)
	assert.Equal(t, 20.0, e.Planets["Sun"].Degree)
	assert.Nil(t, e.Planets["Sun"].DistanceAU)
	assert.Equal(t, 0.0026, e.Distances["Moon"])
	require.NotNil(t, e.Moon)
	assert.True(t, e.Moon.IsOutOfBounds)
	assert.Equal(t, 97.25, *e.Moon.PhaseAngle)
}

func TestEphemerisRejectsIncompleteAngle(t *testing.T) {
	_, err := Ephemeris("ephemeris", []byte(`{"heatmap_data":[],"angles":{"ascendant":{"degree":1}}}`))
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}
