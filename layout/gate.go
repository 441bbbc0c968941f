package layout

import (
	"strings"

	"github.com/kiefholz/ligaplan/model"
)

// Policy decides whether the fragment that opens a gate passes through it.
type Policy int

const (
	// IncludeTrigger passes the fragment carrying the marker
	IncludeTrigger Policy = iota

	// ExcludeTrigger drops the fragment carrying the marker
	ExcludeTrigger
)

// String returns a string representation of the policy
func (p Policy) String() string {
	switch p {
	case IncludeTrigger:
		return "include"
	case ExcludeTrigger:
		return "exclude"
	default:
		return "unknown"
	}
}

// Gate suppresses fragments until a marker substring appears.
type Gate struct {
	marker string
	close  string
	policy Policy

	active bool
	opened bool
	closed bool
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithClose ends the window at the first fragment containing marker. That
// fragment and everything after it are dropped.
func WithClose(marker string) GateOption {
	return func(g *Gate) {
		g.close = marker
	}
}

// NewGate creates a closed gate that opens at the first fragment containing
// marker. An empty marker yields a gate that is open from the start.
func NewGate(marker string, policy Policy, opts ...GateOption) *Gate {
	g := &Gate{marker: marker, policy: policy}
	for _, opt := range opts {
		opt(g)
	}
	g.active = marker == ""
	return g
}

// Pass reports whether a fragment with the given text flows downstream,
// updating the gate state.
func (g *Gate) Pass(text string) bool {
	if g.closed {
		return false
	}

	if !g.active {
		if !strings.Contains(text, g.marker) {
			return false
		}
		g.active = true
		g.opened = true
		return g.policy == IncludeTrigger
	}

	if g.close != "" && strings.Contains(text, g.close) {
		g.active = false
		g.closed = true
		return false
	}
	return true
}

// Active reports whether the gate is currently open.
func (g *Gate) Active() bool {
	return g.active
}

// Opened reports whether the gate has opened at some point, even if a close
// marker has ended the window since.
func (g *Gate) Opened() bool {
	return g.opened || g.marker == ""
}

// Reset returns the gate to its initial state.
func (g *Gate) Reset() {
	g.active = g.marker == ""
	g.opened = false
	g.closed = false
}

// Window returns the fragments of each page that pass g, in order. Pages
// keep their positions, so an entirely gated page becomes empty.
func Window(pages [][]model.Fragment, g *Gate) [][]model.Fragment {
	out := make([][]model.Fragment, len(pages))
	for i, frags := range pages {
		for _, f := range frags {
			if g.Pass(f.Text) {
				out[i] = append(out[i], f)
			}
		}
	}
	return out
}
