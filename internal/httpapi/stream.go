package httpapi

import (
	"context"
	"time"

	"github.com/MalithGihan/skygraph/internal/graphview"
)

// Positions is pushed while physics runs so clients can redraw the layout.
type Positions struct {
	Type      string           `json:"type"`
	NetworkID string           `json:"networkId"`
	Nodes     []graphview.Node `json:"nodes"`
}

// Forward broadcasts every session event until the returned func is called.
func Forward(sess *graphview.Session, hub *Hub) (cancel func()) {
	return sess.Subscribe(func(ev graphview.Event) { hub.Broadcast(ev) })
}

// Stream forwards session events to hub and, while physics is enabled,
// advances the layout every interval and broadcasts node positions. It
// returns when ctx is done.
func Stream(ctx context.Context, sess *graphview.Session, hub *Hub, interval time.Duration) {
	defer Forward(sess, hub)()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !sess.Tick() {
				continue
			}
			if n := sess.Network(); n != nil {
				hub.Broadcast(Positions{Type: "positions", NetworkID: n.ID, Nodes: n.Nodes})
			}
		}
	}
}
