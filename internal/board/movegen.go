package board

// GenerateAll returns every legal move for color c.
//
// Drop-ins come first, in pool order, then board moves scanning ranks from
// c's own back rank toward the opponent's. Castling is not generated here.
// Every candidate goes through WouldLandInCapturableKing; the position is
// left as it was found.
func (p *Position) GenerateAll(c Color) *MoveList {
	ml := NewMoveList()
	p.generateDrops(ml, c)

	start, step := 0, 1
	if c == Black {
		start, step = 7, -1
	}

	for i := 0; i < 8; i++ {
		rank := start + i*step
		for file := 0; file < 8; file++ {
			from := NewSquare(file, rank)
			piece := p.Board[from]
			if piece.Color() != c {
				continue
			}

			switch piece.Type() {
			case Pawn:
				p.generatePawnMoves(ml, from, c)
			case Knight:
				p.generateSteps(ml, from, c, knightOffsets[:])
			case King:
				p.generateSteps(ml, from, c, kingDirections[:])
			case Rook:
				p.generateRays(ml, from, c, rookDirections[:])
			case Bishop:
				p.generateRays(ml, from, c, bishopDirections[:])
			case Queen:
				p.generateRays(ml, from, c, kingDirections[:])
			}
		}
	}

	return ml
}

// addIfLegal adds m unless it leaves c's king capturable.
func (p *Position) addIfLegal(ml *MoveList, m Move, c Color) {
	if !p.WouldLandInCapturableKing(m, c) {
		ml.Add(m)
	}
}

// generateDrops adds a drop for every pooled kind on every empty square.
// Pawns may not be dropped on the first or last rank.
func (p *Position) generateDrops(ml *MoveList, c Color) {
	for pt := Pawn; pt < PoolKinds; pt++ {
		if p.Pool[c][pt] <= 0 {
			continue
		}

		lo, hi := 0, 7
		if pt == Pawn {
			lo, hi = 1, 6
		}

		for rank := lo; rank <= hi; rank++ {
			for file := 0; file < 8; file++ {
				to := NewSquare(file, rank)
				if p.Board[to] == Empty {
					p.addIfLegal(ml, NewDrop(pt, to), c)
				}
			}
		}
	}
}

// generatePawnMoves adds captures, en passant, single and double pushes.
// Reaching the far rank promotes to a queen.
func (p *Position) generatePawnMoves(ml *MoveList, from Square, c Color) {
	dir := pawnDirection(c)

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(dir, df)
		if !ok {
			continue
		}
		target := p.Board[to]
		if target.Color() == c.Other() {
			p.addPawnMove(ml, from, to, c)
		} else if target == Empty && p.enPassantAllowed(from, to, c) {
			p.addIfLegal(ml, NewMove(from, to), c)
		}
	}

	to, ok := from.Offset(dir, 0)
	if !ok || p.Board[to] != Empty {
		return
	}
	p.addPawnMove(ml, from, to, c)

	if from.Rank() == BackRank(c)+dir {
		if to2, ok := from.Offset(2*dir, 0); ok && p.Board[to2] == Empty {
			p.addIfLegal(ml, NewMove(from, to2), c)
		}
	}
}

// addPawnMove adds a pawn move, as a queen promotion on the far rank.
func (p *Position) addPawnMove(ml *MoveList, from, to Square, c Color) {
	if to.Rank() == BackRank(c.Other()) {
		p.addIfLegal(ml, NewPromotion(from, to, Queen), c)
		return
	}
	p.addIfLegal(ml, NewMove(from, to), c)
}

// enPassantAllowed reports whether the pawn of color c on from may capture
// en passant onto to: the previous move must have been an enemy pawn's
// double push that landed beside from.
func (p *Position) enPassantAllowed(from, to Square, c Color) bool {
	last := p.LastMove
	if !last.IsNormal() {
		return false
	}
	lf, lt := last.From(), last.To()
	if lt != NewSquare(to.File(), from.Rank()) {
		return false
	}
	if lf.File() != lt.File() || absInt(lt.Rank()-lf.Rank()) != 2 {
		return false
	}
	pawn := p.Board[lt]
	return pawn.Type() == Pawn && pawn.Color() == c.Other()
}

// generateSteps adds the one-step moves of a knight or king.
func (p *Position) generateSteps(ml *MoveList, from Square, c Color, offsets [][2]int) {
	for _, off := range offsets {
		to, ok := from.Offset(off[0], off[1])
		if !ok || p.Board[to].Color() == c {
			continue
		}
		p.addIfLegal(ml, NewMove(from, to), c)
	}
}

// generateRays adds sliding moves, expanding every direction one square per
// round. A ray stops at the first occupied square, which is included when it
// holds an enemy piece.
func (p *Position) generateRays(ml *MoveList, from Square, c Color, dirs [][2]int) {
	var frontier [8]Square
	open := 0
	for i := range dirs {
		frontier[i] = from
		open |= 1 << i
	}

	for open != 0 {
		for i, dir := range dirs {
			if open&(1<<i) == 0 {
				continue
			}
			to, ok := frontier[i].Offset(dir[0], dir[1])
			if !ok || p.Board[to].Color() == c {
				open &^= 1 << i
				continue
			}
			p.addIfLegal(ml, NewMove(from, to), c)
			if p.Board[to] != Empty {
				open &^= 1 << i
				continue
			}
			frontier[i] = to
		}
	}
}

// HasLegalMoves returns true if color c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	return p.GenerateAll(c).Len() > 0
}

// Perft counts the leaf nodes of the legal move tree to the given depth,
// starting with color c to move.
func (p *Position) Perft(c Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateAll(c)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		p.With(m, c, func() {
			nodes += p.Perft(c.Other(), depth-1)
		})
	}
	return nodes
}
