// Package generation hands out monotonically increasing request tokens so a
// view can tell whether a resolved response still belongs to the latest
// request it issued.
package generation

import "sync/atomic"

type Token uint64

type Counter struct {
	n atomic.Uint64
}

// Next issues a new token; every token issued earlier becomes stale.
func (c *Counter) Next() Token { return Token(c.n.Add(1)) }

// Current reports whether t is the most recently issued token.
func (c *Counter) Current(t Token) bool { return uint64(t) == c.n.Load() }

func (c *Counter) Latest() Token { return Token(c.n.Load()) }
