package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castleFlag returns the bit for one side and wing.
func castleFlag(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleFlag(c, kingSide) != 0
}

// Position is the mutable game state shared by the whole search.
//
// Board, Pool, CastlingRights and HalfMoveClock are read freely but only
// written through Apply/Revert and the setup functions in this package.
type Position struct {
	Board [64]Piece

	// Reserve pools indexed [Color][PieceType], pawn through queen.
	Pool [2][PoolKinds]int

	CastlingRights CastlingRights
	HalfMoveClock  int // plies since the last capture, pawn move or drop

	// SideToMove is flipped by every Apply.
	SideToMove Color

	// LastMove is the move that produced this position; Resign when unknown.
	LastMove Move
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// PieceAt returns the piece at the given square, or Empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Board[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Board[sq] == Empty
}

// PoolCount returns how many pieces of a kind the color holds in reserve.
func (p *Position) PoolCount(c Color, pt PieceType) int {
	if pt >= PoolKinds {
		return 0
	}
	return p.Pool[c][pt]
}

// KingSquare returns the square of the color's king, or NoSquare when the
// king is not on the board.
func (p *Position) KingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if p.Board[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			s := piece.String()
			if len(s) == 1 {
				s += " "
			}
			sb.WriteString(s)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "Pools: [%s]\n", p.poolString())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Last move: %s\n", p.LastMove)
	return sb.String()
}

// Clear resets the position to an empty board with no rights.
func (p *Position) Clear() {
	*p = Position{LastMove: Resign}
}

// Validate checks if the position is valid.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		piece := p.Board[sq]
		if piece.Type() == King {
			if piece.IsPromoted() {
				return fmt.Errorf("promoted king on %s", sq)
			}
			kings[piece.Color()]++
		}
		if piece.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("pawn on %s", sq)
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt < PoolKinds; pt++ {
			if p.Pool[c][pt] < 0 {
				return fmt.Errorf("negative %s pool for %s", pt, c)
			}
		}
	}

	return nil
}

// InCheck returns true if the side to move has a capturable king.
func (p *Position) InCheck() bool {
	return p.KingCapturable(p.SideToMove)
}

// Mirror returns the position with the board flipped top to bottom and the
// colors swapped, pools and castling rights included.
func (p *Position) Mirror() *Position {
	m := &Position{
		HalfMoveClock: p.HalfMoveClock,
		SideToMove:    p.SideToMove.Other(),
		LastMove:      Resign,
	}

	for sq := A1; sq <= H8; sq++ {
		piece := p.Board[sq]
		if piece == Empty {
			continue
		}
		flipped := NewPiece(piece.Type(), piece.Color().Other())
		if piece.IsPromoted() {
			flipped = flipped.Promoted()
		}
		m.Board[sq.Mirror()] = flipped
	}

	m.Pool[White], m.Pool[Black] = p.Pool[Black], p.Pool[White]

	for c := White; c <= Black; c++ {
		for _, kingSide := range []bool{true, false} {
			if p.CastlingRights.CanCastle(c, kingSide) {
				m.CastlingRights |= castleFlag(c.Other(), kingSide)
			}
		}
	}

	if last := p.LastMove; last.IsNormal() {
		m.LastMove = NewMove(last.From().Mirror(), last.To().Mirror())
	}

	return m
}
