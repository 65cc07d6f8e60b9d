package board

// Direction tables as (rank delta, file delta) pairs.
var (
	// All eight directions, shared by queen and king.
	kingDirections = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}}

	knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, 2}, {1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}}

	rookDirections   = [4][2]int{{-1, 0}, {0, 1}, {1, 0}, {0, -1}}
	bishopDirections = [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
)

// pawnDirection returns the rank step of the color's pawns.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Attacks reports whether the piece standing on from could move onto
// target by its own movement rule, ignoring anything in between. Pieces of
// the same color, and empty squares, never attack.
//
// Callers are responsible for the line being clear; KingCapturable only
// asks about the first occupied square of each ray.
func (p *Position) Attacks(from, target Square) bool {
	attacker := p.Board[from]
	if attacker == Empty || attacker.Color() == p.Board[target].Color() {
		return false
	}

	dr := target.Rank() - from.Rank()
	df := target.File() - from.File()

	switch attacker.Type() {
	case Pawn:
		return dr == pawnDirection(attacker.Color()) && absInt(df) == 1
	case Rook:
		return dr == 0 || df == 0
	case Bishop:
		return absInt(dr) == absInt(df)
	case Knight:
		return dr != 0 && df != 0 && absInt(dr)+absInt(df) == 3
	case Queen:
		return dr == 0 || df == 0 || absInt(dr) == absInt(df)
	case King:
		return absInt(dr) <= 1 && absInt(df) <= 1
	}
	return false
}

// KingCapturable reports whether an enemy piece could move onto the king of
// color c right now. A king that is missing from the board counts as lost.
//
// Knights are found by probing the eight knight offsets. Everything else is
// found by expanding all eight rays from the king one step at a time and
// testing the first occupied square of each ray.
func (p *Position) KingCapturable(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return true
	}

	for _, off := range knightOffsets {
		sq, ok := ksq.Offset(off[0], off[1])
		if !ok {
			continue
		}
		if piece := p.Board[sq]; piece.Color() == c.Other() && piece.Type() == Knight {
			return true
		}
	}

	var frontier [8]Square
	open := 0
	for i := range kingDirections {
		frontier[i] = ksq
		open |= 1 << i
	}

	for open != 0 {
		for i, dir := range kingDirections {
			if open&(1<<i) == 0 {
				continue
			}
			sq, ok := frontier[i].Offset(dir[0], dir[1])
			if !ok {
				open &^= 1 << i
				continue
			}
			frontier[i] = sq
			if p.Board[sq] == Empty {
				continue
			}
			if p.Attacks(sq, ksq) {
				return true
			}
			open &^= 1 << i
		}
	}

	return false
}

// WouldLandInCapturableKing applies m for color c, asks whether c's king can
// then be taken, and reverts. It is the only legality filter.
func (p *Position) WouldLandInCapturableKing(m Move, c Color) bool {
	capturable := false
	p.With(m, c, func() {
		capturable = p.KingCapturable(c)
	})
	return capturable
}

// KingSafeOn reports whether c's king would be safe standing on sq, with
// whatever is on sq set aside. The board is restored before returning.
func (p *Position) KingSafeOn(c Color, sq Square) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	if ksq == sq {
		return !p.KingCapturable(c)
	}

	king := p.Board[ksq]
	saved := p.Board[sq]
	p.Board[ksq] = Empty
	p.Board[sq] = king
	defer func() {
		p.Board[sq] = saved
		p.Board[ksq] = king
	}()

	return !p.KingCapturable(c)
}
