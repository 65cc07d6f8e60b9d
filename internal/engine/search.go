package engine

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/hailam/sigsegv/internal/board"
	"golang.org/x/sync/errgroup"
)

// Searcher performs the minimax search.
//
// A Searcher may be reused across moves but runs one search at a time. With
// a single thread the search works on the caller's position in place and
// leaves it as it found it; with more threads every root move gets its own
// copy.
type Searcher struct {
	opts   Options
	logger *log.Logger
	nodes  atomic.Uint64
}

// NewSearcher creates a new searcher. A nil logger discards output.
func NewSearcher(opts Options, logger *log.Logger) *Searcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Searcher{opts: opts.normalize(), logger: logger}
}

// Options returns the options in effect.
func (s *Searcher) Options() Options {
	return s.opts
}

// SetDepth changes the search depth for later searches.
func (s *Searcher) SetDepth(depth int) {
	s.opts.Depth = depth
	s.opts = s.opts.normalize()
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// Search picks a move for side in pos.
//
// Even plies maximise for side, odd plies minimise. The first root move
// reaching the best score wins, so the result depends only on the position
// and side.
func (s *Searcher) Search(pos *board.Position, side board.Color) Result {
	s.nodes.Store(0)
	start := time.Now()

	res := Result{Move: board.Resign, Depth: s.opts.Depth}
	res.Score = s.terminal(pos, side)

	if res.Score == 0 {
		moves := pos.GenerateAll(side).Slice()
		var scores []int
		if s.opts.Threads > 1 && len(moves) > 1 {
			scores = s.searchParallel(pos, side, moves)
		} else {
			scores = s.searchSequential(pos, side, moves)
		}

		res.Score = -Infinity
		for i, m := range moves {
			if res.Move.IsResign() || scores[i] > res.Score {
				res.Move = m
				res.Score = scores[i]
			}
		}
	}

	s.nodes.Add(1)
	res.Nodes = s.nodes.Load()
	res.Elapsed = time.Since(start)

	s.logger.Printf("search: side=%s depth=%d move=%s score=%s nodes=%d time=%s",
		side, res.Depth, res.Move, ScoreToString(res.Score), res.Nodes, res.Elapsed)

	return res
}

// terminal returns the node-entry score: -WinScore when side's king is
// capturable, WinScore when the opponent's is, and zero otherwise.
func (s *Searcher) terminal(pos *board.Position, side board.Color) int {
	if pos.KingCapturable(side) {
		return -WinScore
	}
	if pos.KingCapturable(side.Other()) {
		return WinScore
	}
	return 0
}

// searchSequential scores each root move on pos itself.
func (s *Searcher) searchSequential(pos *board.Position, side board.Color, moves []board.Move) []int {
	scores := make([]int, len(moves))
	var nodes uint64
	for i, m := range moves {
		pos.With(m, side, func() {
			scores[i] = s.minimax(pos, side, 1, &nodes)
		})
	}
	s.nodes.Add(nodes)
	return scores
}

// searchParallel scores the root moves on up to Threads goroutines, each on
// a private copy of pos. Scores come back indexed by generation order.
func (s *Searcher) searchParallel(pos *board.Position, side board.Color, moves []board.Move) []int {
	scores := make([]int, len(moves))

	var g errgroup.Group
	g.SetLimit(s.opts.Threads)
	for i, m := range moves {
		branch := pos.Copy()
		g.Go(func() error {
			var nodes uint64
			branch.With(m, side, func() {
				scores[i] = s.minimax(branch, side, 1, &nodes)
			})
			s.nodes.Add(nodes)
			return nil
		})
	}
	// Branches never fail.
	_ = g.Wait()

	return scores
}

// minimax scores the node at the given depth from side's point of view.
func (s *Searcher) minimax(pos *board.Position, side board.Color, depth int, nodes *uint64) int {
	*nodes++

	if score := s.terminal(pos, side); score != 0 {
		return score
	}
	if depth >= s.opts.Depth-1 {
		return Evaluate(pos, side)
	}

	maximizing := depth%2 == 0
	toMove := side
	best := -Infinity
	if !maximizing {
		toMove = side.Other()
		best = Infinity
	}

	for _, m := range pos.GenerateAll(toMove).Slice() {
		var score int
		pos.With(m, toMove, func() {
			score = s.minimax(pos, side, depth+1, nodes)
		})
		if maximizing && score > best || !maximizing && score < best {
			best = score
		}
	}

	return best
}
