package backend

import "sync/atomic"

// Generation counts renderer lifetimes. Resources remember the generation
// they were created in and become inert once it moves on.
type Generation struct {
	n atomic.Uint64
}

// Current returns the live generation.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// Bump ends the current generation.
func (g *Generation) Bump() uint64 {
	return g.n.Add(1)
}

// Token captures the current generation.
func (g *Generation) Token() Token {
	return Token{gen: g, at: g.n.Load()}
}

// Token is a resource's view of its creating generation.
type Token struct {
	gen *Generation
	at  uint64
}

// Valid reports whether the generation the token was taken in is still live.
func (t Token) Valid() bool {
	return t.gen != nil && t.gen.Current() == t.at
}

var suspended atomic.Bool

// SetSuspended marks the process as suspended (window hidden or unfocused).
func SetSuspended(v bool) {
	suspended.Store(v)
}

// Suspended reports whether presentation should be skipped.
func Suspended() bool {
	return suspended.Load()
}
