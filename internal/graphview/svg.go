package graphview

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

const fitPadding = 40.0

// RenderSVG draws n fitted into a width×height viewport: arrowed edges,
// dot nodes, labels, and <title> children for hover tooltips.
func RenderSVG(w io.Writer, n *Network, width, height int) error {
	if n == nil {
		return fmt.Errorf("graphview: no network to render")
	}
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Def()
	canvas.Marker("arrow", 10, 5, 10, 10, `orient="auto"`, `markerUnits="strokeWidth"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:context-stroke")
	canvas.MarkerEnd()
	canvas.DefEnd()
	canvas.Rect(0, 0, width, height, "fill:white")

	project := fit(n.Nodes, float64(width), float64(height))
	pos := make(map[string][2]int, len(n.Nodes))
	for _, nd := range n.Nodes {
		x, y := project(nd.X, nd.Y)
		pos[nd.ID] = [2]int{x, y}
	}

	canvas.Gid("edges")
	for _, e := range n.Edges {
		from, okFrom := pos[e.From]
		to, okTo := pos[e.To]
		if !okFrom || !okTo {
			continue
		}
		// stop the arrow at the target's rim
		target, _ := n.node(e.To)
		x2, y2 := shorten(from, to, target.Size)
		style := fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f", e.Color, e.Opacity, e.Width)
		if e.Arrow {
			style += ";marker-end:url(#arrow)"
		}
		canvas.Group()
		if e.Title != "" {
			canvas.Title(e.Title)
		}
		canvas.Line(from[0], from[1], x2, y2, style)
		if n.Options.ShowEdgeLabels && e.Label != "" {
			size := e.FontSize
			if size == 0 {
				size = 10
			}
			canvas.Text((from[0]+to[0])/2, (from[1]+to[1])/2, e.Label,
				fmt.Sprintf("font-family:arial;font-size:%.0fpx;fill:#666;text-anchor:middle", size))
		}
		canvas.Gend()
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, nd := range n.Nodes {
		p := pos[nd.ID]
		canvas.Group()
		if nd.Title != "" {
			canvas.Title(nd.Title)
		}
		canvas.Circle(p[0], p[1], int(math.Round(nd.Size/2)),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:2", nd.Color.Background, nd.Color.Border))
		canvas.Text(p[0], p[1]+int(nd.Size/2)+14, nd.Label,
			"font-family:arial;font-size:14px;fill:#343434;text-anchor:middle")
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// fit maps layout coordinates into the viewport, preserving aspect ratio.
func fit(nodes []Node, width, height float64) func(x, y float64) (int, int) {
	minX, minY, maxX, maxY := Bounds(nodes)
	gw, gh := maxX-minX, maxY-minY
	if gw <= 0 {
		gw = 1
	}
	if gh <= 0 {
		gh = 1
	}
	s := math.Min((width-2*fitPadding)/gw, (height-2*fitPadding)/gh)
	if s <= 0 || len(nodes) < 2 {
		s = 1
	}
	offX := width/2 - (minX+gw/2)*s
	offY := height/2 - (minY+gh/2)*s
	return func(x, y float64) (int, int) {
		return int(math.Round(x*s + offX)), int(math.Round(y*s + offY))
	}
}

func shorten(from, to [2]int, targetSize float64) (int, int) {
	dx, dy := float64(to[0]-from[0]), float64(to[1]-from[1])
	d := math.Hypot(dx, dy)
	r := targetSize / 2
	if d <= r {
		return to[0], to[1]
	}
	k := (d - r) / d
	return from[0] + int(math.Round(dx*k)), from[1] + int(math.Round(dy*k))
}
