// Package engine implements the fixed-depth minimax search.
package engine

import (
	"strconv"
	"time"

	"github.com/hailam/sigsegv/internal/board"
)

// Search constants
const (
	MaxDepth = 4       // plies 0..MaxDepth-1; the last one is evaluated
	WinScore = 1000    // a capturable king
	Infinity = 1 << 30 // no move at an inner node
)

// Options configures a Searcher.
type Options struct {
	Depth   int // search depth in plies, MaxDepth when zero
	Threads int // root moves searched in parallel, 1 when zero
}

// DefaultOptions returns the options the engine plays with.
func DefaultOptions() Options {
	return Options{Depth: MaxDepth, Threads: 1}
}

// normalize fills zero fields and clamps the depth so the root always
// expands at least one ply.
func (o Options) normalize() Options {
	if o.Depth == 0 {
		o.Depth = MaxDepth
	}
	if o.Depth < 2 {
		o.Depth = 2
	}
	if o.Threads < 1 {
		o.Threads = 1
	}
	return o
}

// Result contains the outcome of one search.
type Result struct {
	Move    board.Move // board.Resign when no move exists
	Score   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= Infinity:
		return "no moves (opponent)"
	case score <= -Infinity:
		return "no moves"
	case score >= WinScore:
		return "king capture"
	case score <= -WinScore:
		return "king lost"
	}
	return strconv.Itoa(score)
}
