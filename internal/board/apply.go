package board

// Undo stores what Apply changed so Revert can restore the position exactly.
type Undo struct {
	// Captured is the piece taken by the move, Empty if none. For en passant
	// it is the pawn removed beside the destination.
	Captured Piece

	mover      Color
	capturedOn Square
	rookFrom   Square
	rookTo     Square

	castlingRights CastlingRights
	halfMoveClock  int
	sideToMove     Color
	lastMove       Move
}

// corner returns the home square of c's rook on the given wing.
func corner(c Color, kingSide bool) Square {
	file := 0
	if kingSide {
		file = 7
	}
	return NewSquare(file, BackRank(c))
}

// Apply plays m for color c and returns what Revert needs to undo it.
//
// Captures and en passant feed the mover's pool, drops consume it, king and
// corner-rook moves clear castling rights, a king move across more than one
// file also carries the rook, and the half-move clock is reset by pawn
// moves, captures and drops and incremented otherwise.
func (p *Position) Apply(m Move, c Color) Undo {
	u := Undo{
		Captured:       Empty,
		mover:          c,
		capturedOn:     NoSquare,
		rookFrom:       NoSquare,
		rookTo:         NoSquare,
		castlingRights: p.CastlingRights,
		halfMoveClock:  p.HalfMoveClock,
		sideToMove:     p.SideToMove,
		lastMove:       p.LastMove,
	}

	switch m.Kind() {
	case KindNormal:
		from, to := m.From(), m.To()
		piece := p.Board[from]

		if target := p.Board[to]; target != Empty {
			u.Captured = target
			u.capturedOn = to
		} else if piece.Type() == Pawn && from.File() != to.File() {
			epSq := NewSquare(to.File(), from.Rank())
			u.Captured = p.Board[epSq]
			u.capturedOn = epSq
			p.Board[epSq] = Empty
		}
		p.capture(c, u.Captured, u.capturedOn)

		if piece.Type() == King {
			p.CastlingRights &^= castleFlag(c, true) | castleFlag(c, false)

			if df := to.File() - from.File(); absInt(df) > 1 {
				kingSide := df > 0
				rookFrom := corner(c, kingSide)
				rookTo := NewSquare(5, from.Rank())
				if !kingSide {
					rookTo = NewSquare(3, from.Rank())
				}
				if p.Board[rookFrom].Color() == c {
					p.Board[rookTo] = p.Board[rookFrom]
					p.Board[rookFrom] = Empty
					u.rookFrom, u.rookTo = rookFrom, rookTo
				}
			}
		}
		if piece.Type() == Rook {
			if from == corner(c, false) {
				p.CastlingRights &^= castleFlag(c, false)
			} else if from == corner(c, true) {
				p.CastlingRights &^= castleFlag(c, true)
			}
		}

		p.Board[to] = piece
		p.Board[from] = Empty

		if piece.Type() == Pawn || u.Captured != Empty {
			p.HalfMoveClock = 0
		} else {
			p.HalfMoveClock++
		}

	case KindPromotion:
		from, to := m.From(), m.To()
		if target := p.Board[to]; target != Empty {
			u.Captured = target
			u.capturedOn = to
		}
		p.capture(c, u.Captured, u.capturedOn)

		p.Board[from] = Empty
		p.Board[to] = NewPiece(m.Piece(), c).Promoted()
		p.HalfMoveClock = 0

	case KindDrop:
		pt := m.Piece()
		p.Board[m.To()] = NewPiece(pt, c)
		p.Pool[c][pt]--
		p.HalfMoveClock = 0

	default:
		return u
	}

	p.LastMove = m
	p.SideToMove = c.Other()
	return u
}

// capture banks a taken piece in c's pool and clears the opponent's castling
// right when a piece is taken on its rook corner. Kings are never pooled.
func (p *Position) capture(c Color, captured Piece, on Square) {
	if captured == Empty {
		return
	}
	if pt := captured.PoolType(); pt < PoolKinds {
		p.Pool[c][pt]++
	}

	them := c.Other()
	if on == corner(them, false) {
		p.CastlingRights &^= castleFlag(them, false)
	} else if on == corner(them, true) {
		p.CastlingRights &^= castleFlag(them, true)
	}
}

// Revert undoes m using the Undo returned by the matching Apply. Calls must
// pair with Apply in LIFO order.
func (p *Position) Revert(m Move, u Undo) {
	c := u.mover

	switch m.Kind() {
	case KindNormal:
		from, to := m.From(), m.To()
		p.Board[from] = p.Board[to]
		p.Board[to] = Empty
		if u.rookFrom != NoSquare {
			p.Board[u.rookFrom] = p.Board[u.rookTo]
			p.Board[u.rookTo] = Empty
		}
		p.uncapture(c, u)

	case KindPromotion:
		p.Board[m.From()] = NewPiece(Pawn, c)
		p.Board[m.To()] = Empty
		p.uncapture(c, u)

	case KindDrop:
		p.Board[m.To()] = Empty
		p.Pool[c][m.Piece()]++
	}

	p.CastlingRights = u.castlingRights
	p.HalfMoveClock = u.halfMoveClock
	p.SideToMove = u.sideToMove
	p.LastMove = u.lastMove
}

func (p *Position) uncapture(c Color, u Undo) {
	if u.Captured == Empty {
		return
	}
	p.Board[u.capturedOn] = u.Captured
	if pt := u.Captured.PoolType(); pt < PoolKinds {
		p.Pool[c][pt]--
	}
}

// With applies m for c, runs fn, and reverts m on every exit path out of
// fn, panics included.
func (p *Position) With(m Move, c Color, fn func()) {
	u := p.Apply(m, c)
	defer p.Revert(m, u)
	fn()
}
