package console

import (
	"strings"
	"sync"
)

const defaultPaneLines = 1000

// Pane is the scrolling output log. Once full, the oldest lines drop off.
type Pane struct {
	mu    sync.Mutex
	max   int
	lines []string
}

func NewPane(max int) *Pane {
	if max <= 0 {
		max = defaultPaneLines
	}
	return &Pane{max: max}
}

func (p *Pane) Append(lines ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = append(p.lines, lines...)
	if over := len(p.lines) - p.max; over > 0 {
		p.lines = append([]string(nil), p.lines[over:]...)
	}
}

func (p *Pane) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

func (p *Pane) String() string {
	return strings.Join(p.Lines(), "\n")
}
