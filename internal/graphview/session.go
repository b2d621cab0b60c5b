package graphview

import (
	"sync"
	"time"

	"github.com/MalithGihan/skygraph/internal/apperr"
	"github.com/MalithGihan/skygraph/internal/generation"
)

type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateError    State = "error"
)

// PhysicsWindow is how long a double-click lets the layout move again.
const PhysicsWindow = 3 * time.Second

type Event struct {
	Type       string           `json:"type"` // "state" or "physics"
	State      State            `json:"state"`
	View       string           `json:"view,omitempty"`
	NetworkID  string           `json:"networkId,omitempty"`
	Generation generation.Token `json:"generation"`
	Physics    bool             `json:"physics"`
	Error      string           `json:"error,omitempty"`
}

// Session owns the network currently on display. Loads take a token from
// Begin; only the holder of the latest token may Commit or Fail, so when
// requests overlap the last one issued wins and older responses are dropped.
type Session struct {
	mu      sync.Mutex
	gen     generation.Counter
	network *Network
	layout  *layoutState
	state   State
	lastErr error
	physics bool

	afterFunc func(time.Duration, func())
	subs      map[int]func(Event)
	nextSub   int
}

type SessionOption func(*Session)

// WithAfterFunc replaces time.AfterFunc for the physics window timer.
func WithAfterFunc(f func(time.Duration, func())) SessionOption {
	return func(s *Session) { s.afterFunc = f }
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		state:     StateIdle,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		subs:      map[int]func(Event){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Begin marks a load as in flight and returns its token.
func (s *Session) Begin() generation.Token {
	s.mu.Lock()
	tok := s.gen.Next()
	s.state = StateLoading
	ev := s.eventLocked("state")
	s.mu.Unlock()
	s.publish(ev)
	return tok
}

// Commit installs n if tok is still current; otherwise n is discarded.
func (s *Session) Commit(tok generation.Token, n *Network) error {
	s.mu.Lock()
	if !s.gen.Current(tok) {
		s.mu.Unlock()
		return apperr.Stale("graphview.commit")
	}
	s.network = n
	s.layout = &layoutState{}
	s.state = StateRendered
	s.lastErr = nil
	s.physics = false
	ev := s.eventLocked("state")
	s.mu.Unlock()
	s.publish(ev)
	return nil
}

// Fail records err for tok. The network on display is left as it was.
func (s *Session) Fail(tok generation.Token, err error) error {
	s.mu.Lock()
	if !s.gen.Current(tok) {
		s.mu.Unlock()
		return apperr.Stale("graphview.fail")
	}
	s.state = StateError
	s.lastErr = err
	ev := s.eventLocked("state")
	s.mu.Unlock()
	s.publish(ev)
	return nil
}

// Network returns a copy of the network on display, or nil.
func (s *Session) Network() *Network {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.Clone()
}

func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.lastErr
}

func (s *Session) PhysicsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.physics
}

// DoubleClick enables physics for PhysicsWindow. The timer is never
// cancelled: an earlier double-click's timer still switches physics off
// even if a later double-click happened in between.
func (s *Session) DoubleClick() {
	s.setPhysics(true)
	s.afterFunc(PhysicsWindow, func() { s.setPhysics(false) })
}

func (s *Session) setPhysics(on bool) {
	s.mu.Lock()
	s.physics = on
	if s.network != nil {
		s.network.Options.Physics.Enabled = on
	}
	ev := s.eventLocked("physics")
	s.mu.Unlock()
	s.publish(ev)
}

// Tick advances the layout one step while physics is enabled and reports
// whether anything moved.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.physics || s.network == nil || len(s.network.Nodes) == 0 {
		return false
	}
	return tick(s.network, s.network.Options.Physics, s.layout) > 0
}

// Subscribe registers fn for state and physics events. fn runs on the
// goroutine that caused the event and must not call back into the session.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) eventLocked(typ string) Event {
	ev := Event{Type: typ, State: s.state, Generation: s.gen.Latest(), Physics: s.physics}
	if s.network != nil {
		ev.View = s.network.View
		ev.NetworkID = s.network.ID
	}
	if s.lastErr != nil {
		ev.Error = s.lastErr.Error()
	}
	return ev
}

func (s *Session) publish(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
