// Package bot holds the engine's game session: the live position, the side
// the engine plays, and the turn protocol between recorded opponent moves
// and computed replies.
package bot

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/hailam/sigsegv/internal/board"
	"github.com/hailam/sigsegv/internal/engine"
)

// Name is the engine name reported to the GUI.
const Name = "sigsegv"

// Signals written when the engine cannot or need not go on.
const (
	StalemateSignal = "1/2-1/2 {Stalemate}"
	DrawSignal      = "1/2-1/2 {Draw by repetition}"
)

// DrawClock is the half-move clock value that triggers DrawSignal.
const DrawClock = 50

// ErrIllegalMove is returned by RecordMove for a move the position cannot
// take.
var ErrIllegalMove = errors.New("illegal move")

// Mode selects whether the engine replies to recorded moves.
type Mode int

const (
	Normal Mode = iota // reply to every opponent move
	Force              // record moves for both sides, never reply
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Force {
		return "force"
	}
	return "normal"
}

// Bot is one game session.
type Bot struct {
	pos      *board.Position
	side     board.Color
	mode     Mode
	lastMove board.Move
	history  []board.Move

	searcher   *engine.Searcher
	lastResult engine.Result

	signals io.Writer
	logger  *log.Logger
}

// New creates a session at the starting position with the engine playing
// Black. Terminal signals are written to signals; a nil logger discards
// diagnostics.
func New(opts engine.Options, signals io.Writer, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if signals == nil {
		signals = io.Discard
	}
	b := &Bot{
		searcher: engine.NewSearcher(opts, logger),
		signals:  signals,
		logger:   logger,
	}
	b.Reset()
	return b
}

// Reset starts a new game from the initial position.
func (b *Bot) Reset() {
	b.pos = board.NewPosition()
	b.side = board.Black
	b.mode = Normal
	b.lastMove = board.Resign
	b.history = nil
	b.lastResult = engine.Result{Move: board.Resign}
}

// SetPosition replaces the live position with a copy of pos. The move
// history is cleared.
func (b *Bot) SetPosition(pos *board.Position) {
	b.pos = pos.Copy()
	b.lastMove = pos.LastMove
	b.history = nil
}

// Position returns a copy of the live position.
func (b *Bot) Position() *board.Position {
	return b.pos.Copy()
}

// Name returns the engine name.
func (b *Bot) Name() string {
	return Name
}

// SetPlaySide sets the color the engine plays.
func (b *Bot) SetPlaySide(c board.Color) {
	b.side = c
}

// PlaySide returns the color the engine plays.
func (b *Bot) PlaySide() board.Color {
	return b.side
}

// SetMode switches between normal and force mode.
func (b *Bot) SetMode(m Mode) {
	b.mode = m
}

// Mode returns the current mode.
func (b *Bot) Mode() Mode {
	return b.mode
}

// SetDepth changes the search depth.
func (b *Bot) SetDepth(depth int) {
	b.searcher.SetDepth(depth)
}

// LastMove returns the last move recorded or played, board.Resign if none.
func (b *Bot) LastMove() board.Move {
	return b.lastMove
}

// History returns the moves played since the game or setup position began.
func (b *Bot) History() []board.Move {
	out := make([]board.Move, len(b.history))
	copy(out, b.history)
	return out
}

// LastResult returns the search behind the last computed move. Its Move is
// board.Resign when that move came from defendCheck or castling.
func (b *Bot) LastResult() engine.Result {
	return b.lastResult
}

// RecordMove plays m for side on the live board without searching.
//
// The move is checked against the board: a normal move or promotion needs
// one of side's pieces on the source and no own piece on the destination,
// a drop needs a pooled piece and an empty square. Castling arrives as a
// two-file king move. Resign is accepted and ignored.
func (b *Bot) RecordMove(m board.Move, side board.Color) error {
	if err := b.check(m, side); err != nil {
		return err
	}
	if m.IsResign() {
		return nil
	}

	b.pos.Apply(m, side)
	b.lastMove = m
	b.history = append(b.history, m)
	return nil
}

func (b *Bot) check(m board.Move, side board.Color) error {
	switch m.Kind() {
	case board.KindNormal, board.KindPromotion:
		piece := b.pos.Board[m.From()]
		if piece.Color() != side {
			return fmt.Errorf("%w: %s has no %s piece on %s", ErrIllegalMove, m, side, m.From())
		}
		if b.pos.Board[m.To()].Color() == side {
			return fmt.Errorf("%w: %s lands on own piece", ErrIllegalMove, m)
		}
		if m.IsPromotion() && (piece.Type() != board.Pawn || m.To().Rank() != board.BackRank(side.Other())) {
			return fmt.Errorf("%w: %s is not a pawn reaching the last rank", ErrIllegalMove, m)
		}

	case board.KindDrop:
		if b.pos.PoolCount(side, m.Piece()) <= 0 {
			return fmt.Errorf("%w: %s has no %s in reserve", ErrIllegalMove, side, m.Piece())
		}
		if !b.pos.IsEmpty(m.To()) {
			return fmt.Errorf("%w: %s drops on an occupied square", ErrIllegalMove, m)
		}
		if r := m.To().Rank(); m.Piece() == board.Pawn && (r == 0 || r == 7) {
			return fmt.Errorf("%w: %s drops a pawn on a back rank", ErrIllegalMove, m)
		}
	}
	return nil
}

// CalculateNextMove picks the engine's move, plays it on the live board and
// returns it.
//
// A capturable king is answered with the first legal move. Otherwise
// castling is tried king side then queen side, and the search runs when
// neither is possible. When there is no move at all StalemateSignal is
// written and false is returned. After a move, DrawSignal is written once
// the half-move clock reaches DrawClock.
func (b *Bot) CalculateNextMove() (board.Move, bool) {
	b.lastResult = engine.Result{Move: board.Resign}

	var m board.Move
	if b.pos.KingCapturable(b.side) {
		m = b.defendCheck()
	} else if cm, ok := b.castle(); ok {
		m = cm
	} else {
		b.lastResult = b.searcher.Search(b.pos, b.side)
		m = b.lastResult.Move
	}

	if m.IsResign() {
		b.logger.Printf("bot: no move for %s", b.side)
		fmt.Fprintln(b.signals, StalemateSignal)
		return board.Resign, false
	}

	b.pos.Apply(m, b.side)
	b.lastMove = m
	b.history = append(b.history, m)

	if b.pos.HalfMoveClock >= DrawClock {
		fmt.Fprintln(b.signals, DrawSignal)
	}
	return m, true
}

// defendCheck returns the first legal move, every one of which takes the
// king out of capture, or board.Resign when there is none.
func (b *Bot) defendCheck() board.Move {
	moves := b.pos.GenerateAll(b.side)
	if moves.Len() == 0 {
		return board.Resign
	}
	return moves.Get(0)
}
