// Package validate checks upstream payloads against embedded JSON schemas
// and decodes them into typed results. It is the only place that knows the
// wire shape of the chart API.
package validate

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/pkg/types"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	graphSchema     = "graph.schema.json"
	ephemerisSchema = "ephemeris.schema.json"
)

var (
	once    sync.Once
	schemas map[string]*jsonschema.Schema
	loadErr error
)

func load() {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemas = map[string]*jsonschema.Schema{}
	for _, name := range []string{graphSchema, ephemerisSchema} {
		b, err := schemaFS.ReadFile("schema/" + name)
		if err != nil {
			loadErr = err
			return
		}
		url := "mem://skygraph/" + name
		if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
			loadErr = err
			return
		}
		s, err := c.Compile(url)
		if err != nil {
			loadErr = err
			return
		}
		schemas[name] = s
	}
}

// check decodes raw generically, surfaces an upstream {"error": ...} body,
// and validates the document against the named schema.
func check(op, name string, raw []byte) error {
	once.Do(load)
	if loadErr != nil {
		return fmt.Errorf("validate: load schemas: %w", loadErr)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperr.Malformed(op, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return apperr.Malformed(op, errors.New("payload is not an object"))
	}
	if msg, ok := obj["error"].(string); ok && msg != "" {
		return apperr.Malformed(op, fmt.Errorf("upstream error: %s", msg))
	}
	if err := schemas[name].Validate(doc); err != nil {
		return apperr.Malformed(op, describe(err))
	}
	return nil
}

// describe flattens a schema validation error into its innermost messages.
func describe(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return errors.New(strings.Join(msgs, "; "))
}

// Graph validates a {nodes, edges} payload.
func Graph(op string, raw []byte) (types.Graph, error) {
	if err := check(op, graphSchema, raw); err != nil {
		return types.Graph{}, err
	}
	var g types.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return types.Graph{}, apperr.Malformed(op, err)
	}
	return g, nil
}

type hourWire struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
}

type ephemerisWire struct {
	types.Ephemeris
	HourInfo *hourWire `json:"hourInfo"`
	Neo4j    *struct {
		Hour        *hourWire          `json:"hour"`
		Connections []types.Connection `json:"connections"`
	} `json:"neo4j_data"`
}

// Ephemeris validates a /api/geolocation_ephemeris payload. The hour
// reference is read from hourInfo.uri, falling back to neo4j_data.hour.uri;
// its absence is not an error here (see HourURI).
func Ephemeris(op string, raw []byte) (types.Ephemeris, error) {
	if err := check(op, ephemerisSchema, raw); err != nil {
		return types.Ephemeris{}, err
	}
	var w ephemerisWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return types.Ephemeris{}, apperr.Malformed(op, err)
	}
	e := w.Ephemeris
	if w.Neo4j != nil {
		e.Connections = w.Neo4j.Connections
		if w.Neo4j.Hour != nil {
			e.Hour = types.HourRef{URI: w.Neo4j.Hour.URI, Label: w.Neo4j.Hour.Label}
		}
	}
	if w.HourInfo != nil && w.HourInfo.URI != "" {
		e.Hour.URI = w.HourInfo.URI
		if w.HourInfo.Label != "" {
			e.Hour.Label = w.HourInfo.Label
		}
	}
	return e, nil
}

// HourURI returns the hour entity identifier carried by an ephemeris payload.
func HourURI(e types.Ephemeris) (string, error) {
	if e.Hour.URI == "" {
		return "", apperr.MissingField("ephemeris", "hourInfo.uri")
	}
	return e.Hour.URI, nil
}
