package graphview

import (
	"encoding/json"
	"slices"

	"github.com/MalithGihan/skygraph/pkg/types"
)

// HourClassLabel groups every magic hour instance under one class node.
const HourClassLabel = "MagicHourEntity"

// Policy decides which nodes and edges a view shows and how they look.
type Policy struct {
	View               string
	ExcludedNodeLabels []string
	ExcludedEdgeLabels []string
	// Preserve names a node kept even when its label is excluded.
	Preserve       string
	ShowEdgeLabels bool
	Iterations     int

	styleNode func(types.GraphNode) Node
	styleEdge func(types.GraphEdge) Edge
}

func FullGraphPolicy() Policy {
	return Policy{
		View:               ViewFull,
		ExcludedNodeLabels: []string{HourClassLabel},
		ExcludedEdgeLabels: []string{"IS_PART_OF_DAY", "HOUR_RULED_BY"},
		Iterations:         100,
		styleNode: func(n types.GraphNode) Node {
			return Node{
				ID:    n.ID,
				Label: n.Label,
				Title: n.Description,
				Shape: "dot",
				Size:  16,
				Color: Color{Background: "lightblue", Border: "blue"},
			}
		},
		styleEdge: func(e types.GraphEdge) Edge {
			return Edge{
				From:    e.From,
				To:      e.To,
				Width:   2,
				Color:   "#666",
				Opacity: 1,
				Arrow:   true,
			}
		},
	}
}

// HourPolicy keeps the hour instance identified by hour and highlights it.
func HourPolicy(hour string) Policy {
	return Policy{
		View:               ViewHour,
		ExcludedNodeLabels: []string{HourClassLabel},
		ExcludedEdgeLabels: []string{"HAS_MEMBER"},
		Preserve:           hour,
		ShowEdgeLabels:     true,
		Iterations:         250,
		styleNode: func(n types.GraphNode) Node {
			out := Node{
				ID:    n.ID,
				Label: n.Label,
				Title: n.Description,
				Shape: "dot",
				Size:  20,
				Color: Color{Background: "#90EE90", Border: "#006400"},
			}
			if out.Label == "" {
				out.Label = "Unnamed Node"
			}
			if out.Title == "" {
				out.Title = "No description"
			}
			if n.ID == hour {
				out.Size = 25
				out.Color = Color{Background: "#FFD700", Border: "#DAA520"}
			}
			return out
		},
		styleEdge: func(e types.GraphEdge) Edge {
			var title []byte
			if len(e.Properties) > 0 {
				title, _ = json.MarshalIndent(e.Properties, "", "  ")
			}
			return Edge{
				From:     e.From,
				To:       e.To,
				Label:    e.Label,
				Title:    string(title),
				Width:    1,
				Color:    "#006400",
				Opacity:  0.6,
				FontSize: 10,
				Arrow:    true,
			}
		},
	}
}

func (p Policy) excludesNode(n types.GraphNode) bool {
	if p.Preserve != "" && n.ID == p.Preserve {
		return false
	}
	return slices.Contains(p.ExcludedNodeLabels, n.Label)
}

func (p Policy) excludesEdge(e types.GraphEdge) bool {
	return slices.Contains(p.ExcludedEdgeLabels, e.Label)
}

// Filter applies p to g. Edges survive only when both endpoints survive.
func Filter(g types.Graph, p Policy) *Network {
	n := &Network{View: p.View, Hour: p.Preserve, Nodes: []Node{}, Edges: []Edge{}}
	kept := make(map[string]bool, len(g.Nodes))
	for _, gn := range g.Nodes {
		if gn.ID == "" || kept[gn.ID] || p.excludesNode(gn) {
			continue
		}
		kept[gn.ID] = true
		n.Nodes = append(n.Nodes, p.styleNode(gn))
	}
	for _, ge := range g.Edges {
		if p.excludesEdge(ge) || !kept[ge.From] || !kept[ge.To] {
			continue
		}
		n.Edges = append(n.Edges, p.styleEdge(ge))
	}
	return n
}
