package graphview

import "math"

const (
	timestep    = 0.5
	maxVelocity = 50.0
	minVelocity = 0.75

	// repulsionScale brings the small forceAtlas2 constants into pixel units.
	repulsionScale = 100.0
)

// layoutState carries velocities between ticks so a session can resume the
// simulation after stabilization.
type layoutState struct {
	vx, vy []float64
}

// Stabilize places nodes on a circle and runs the force simulation for at
// most ph.Iterations ticks, stopping early once every node is slower than
// minVelocity. Placement is deterministic for a given node order.
func Stabilize(n *Network, ph Physics) {
	count := len(n.Nodes)
	if count == 0 {
		return
	}
	r := ph.SpringLength * math.Sqrt(float64(count)) / 2
	for i := range n.Nodes {
		a := 2 * math.Pi * float64(i) / float64(count)
		n.Nodes[i].X = r * math.Cos(a)
		n.Nodes[i].Y = r * math.Sin(a)
	}
	st := &layoutState{vx: make([]float64, count), vy: make([]float64, count)}
	for i := 0; i < ph.Iterations; i++ {
		if tick(n, ph, st) < minVelocity {
			break
		}
	}
}

// tick advances the simulation one step and returns the fastest node speed.
func tick(n *Network, ph Physics, st *layoutState) float64 {
	count := len(n.Nodes)
	if len(st.vx) != count {
		st.vx = make([]float64, count)
		st.vy = make([]float64, count)
	}
	index := make(map[string]int, count)
	degree := make([]float64, count)
	for i, nd := range n.Nodes {
		index[nd.ID] = i
	}
	for _, e := range n.Edges {
		degree[index[e.From]]++
		degree[index[e.To]]++
	}

	fx := make([]float64, count)
	fy := make([]float64, count)

	// Repulsion, scaled by degree as forceAtlas2 does; gravitational
	// constant is negative so the force points away from the other node.
	for i := 0; i < count; i++ {
		for j := i + 1; j < count; j++ {
			dx := n.Nodes[j].X - n.Nodes[i].X
			dy := n.Nodes[j].Y - n.Nodes[i].Y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist == 0 {
				dx, dist = 0.1*float64(j-i), 0.1*float64(j-i)
			}
			gap := dist - ph.AvoidOverlap*(n.Nodes[i].Size+n.Nodes[j].Size)
			if gap < 0.1 {
				gap = 0.1
			}
			f := ph.GravitationalConstant * (degree[i] + 1) * (degree[j] + 1) / (gap * gap) * repulsionScale
			fx[i] += f * dx / dist
			fy[i] += f * dy / dist
			fx[j] -= f * dx / dist
			fy[j] -= f * dy / dist
		}
	}

	for _, e := range n.Edges {
		s, t := index[e.From], index[e.To]
		if s == t {
			continue
		}
		dx := n.Nodes[t].X - n.Nodes[s].X
		dy := n.Nodes[t].Y - n.Nodes[s].Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist == 0 {
			continue
		}
		f := ph.SpringConstant * (dist - ph.SpringLength)
		fx[s] += f * dx / dist
		fy[s] += f * dy / dist
		fx[t] -= f * dx / dist
		fy[t] -= f * dy / dist
	}

	var fastest float64
	for i := range n.Nodes {
		fx[i] -= ph.CentralGravity * (degree[i] + 1) * n.Nodes[i].X
		fy[i] -= ph.CentralGravity * (degree[i] + 1) * n.Nodes[i].Y

		st.vx[i] = clampVelocity(st.vx[i] + (fx[i]-ph.Damping*st.vx[i])*timestep)
		st.vy[i] = clampVelocity(st.vy[i] + (fy[i]-ph.Damping*st.vy[i])*timestep)
		n.Nodes[i].X += st.vx[i] * timestep
		n.Nodes[i].Y += st.vy[i] * timestep

		if v := math.Hypot(st.vx[i], st.vy[i]); v > fastest {
			fastest = v
		}
	}
	return fastest
}

func clampVelocity(v float64) float64 {
	return math.Max(-maxVelocity, math.Min(maxVelocity, v))
}

// Bounds returns the bounding box of the node centres.
func Bounds(nodes []Node) (minX, minY, maxX, maxY float64) {
	if len(nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = nodes[0].X, nodes[0].Y
	maxX, maxY = minX, minY
	for _, n := range nodes[1:] {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}
