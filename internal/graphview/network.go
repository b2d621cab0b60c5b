// Package graphview turns chart API graphs into laid-out, styled networks.
//
// Two exclusion policies exist: the full view hides the hour class node and
// the hour/day structure edges; the hour view keeps the active hour instance
// and only hides class membership edges.
package graphview

import (
	"github.com/google/uuid"

	"github.com/MalithGihan/skygraph/pkg/types"
)

const (
	ViewFull = "full"
	ViewHour = "hour"
)

type Color struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

type Node struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Title string  `json:"title,omitempty"` // hover tooltip
	Shape string  `json:"shape"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type Edge struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Label    string  `json:"label"`
	Title    string  `json:"title,omitempty"`
	Width    float64 `json:"width"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	FontSize float64 `json:"fontSize,omitempty"`
	Arrow    bool    `json:"arrow"`
}

type Physics struct {
	Enabled               bool    `json:"enabled"`
	Solver                string  `json:"solver"`
	GravitationalConstant float64 `json:"gravitationalConstant"`
	CentralGravity        float64 `json:"centralGravity"`
	SpringLength          float64 `json:"springLength"`
	SpringConstant        float64 `json:"springConstant"`
	Damping               float64 `json:"damping"`
	AvoidOverlap          float64 `json:"avoidOverlap"`
	Iterations            int     `json:"stabilizationIterations"`
}

type Options struct {
	Physics        Physics `json:"physics"`
	Hover          bool    `json:"hover"`
	TooltipDelayMS int     `json:"tooltipDelay"`
	ShowEdgeLabels bool    `json:"showEdgeLabels"`
}

// Network is one rendered visualization. A new Network is built for every
// load; nothing is updated incrementally.
type Network struct {
	ID      string  `json:"id"`
	View    string  `json:"view"`
	Hour    string  `json:"hour,omitempty"`
	Nodes   []Node  `json:"nodes"`
	Edges   []Edge  `json:"edges"`
	Options Options `json:"options"`
}

// Clone returns a deep copy safe to hand outside the session lock.
func (n *Network) Clone() *Network {
	if n == nil {
		return nil
	}
	c := *n
	c.Nodes = append([]Node(nil), n.Nodes...)
	c.Edges = append([]Edge(nil), n.Edges...)
	return &c
}

func (n *Network) node(id string) (Node, bool) {
	for _, x := range n.Nodes {
		if x.ID == id {
			return x, true
		}
	}
	return Node{}, false
}

// DefaultPhysics mirrors the forceAtlas2-based settings both views share.
func DefaultPhysics(iterations int) Physics {
	return Physics{
		Solver:                "forceAtlas2Based",
		GravitationalConstant: -25,
		CentralGravity:        0.005,
		SpringLength:          200,
		SpringConstant:        0.02,
		Damping:               0.15,
		AvoidOverlap:          0.5,
		Iterations:            iterations,
	}
}

// Build filters g with p, lays the result out and wraps it in a Network.
func Build(g types.Graph, p Policy) *Network {
	n := Filter(g, p)
	n.ID = uuid.NewString()
	n.Options = Options{
		Physics:        DefaultPhysics(p.Iterations),
		Hover:          true,
		TooltipDelayMS: 200,
		ShowEdgeLabels: p.ShowEdgeLabels,
	}
	Stabilize(n, n.Options.Physics)
	return n
}
