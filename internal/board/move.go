package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMove is returned when move text does not follow the
// coordinate/drop notation.
var ErrInvalidMove = errors.New("invalid move")

// MoveKind tags the shape of a Move.
type MoveKind uint8

const (
	// KindResign carries none of source, destination or replacement.
	KindResign MoveKind = iota
	// KindNormal carries source and destination.
	KindNormal
	// KindPromotion carries source, destination and replacement.
	KindPromotion
	// KindDrop carries destination and replacement.
	KindDrop
)

// String returns the kind name.
func (k MoveKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindPromotion:
		return "promotion"
	case KindDrop:
		return "drop"
	default:
		return "resign"
	}
}

// Move is an immutable tagged value: a normal move, a promotion, a drop-in
// from the reserve pool, or the resignation sentinel.
//
// Callers switch on Kind before reading fields; reading a field the variant
// does not carry panics.
type Move struct {
	kind  MoveKind
	from  Square
	to    Square
	piece PieceType
}

// Resign is the resignation sentinel.
var Resign = Move{kind: KindResign, from: NoSquare, to: NoSquare, piece: NoPieceType}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{kind: KindNormal, from: from, to: to, piece: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{kind: KindPromotion, from: from, to: to, piece: promo}
}

// NewDrop creates a drop-in of a pooled piece onto an empty square.
func NewDrop(pt PieceType, to Square) Move {
	return Move{kind: KindDrop, from: NoSquare, to: to, piece: pt}
}

// Kind returns the variant of the move.
func (m Move) Kind() MoveKind {
	return m.kind
}

// IsNormal returns true for a plain source/destination move.
func (m Move) IsNormal() bool {
	return m.kind == KindNormal
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.kind == KindPromotion
}

// IsDrop returns true if this is a drop-in.
func (m Move) IsDrop() bool {
	return m.kind == KindDrop
}

// IsResign returns true for the resignation sentinel.
func (m Move) IsResign() bool {
	return m.kind == KindResign
}

// From returns the origin square. Drops and the resign sentinel have none.
func (m Move) From() Square {
	if m.kind != KindNormal && m.kind != KindPromotion {
		panic("board: From called on " + m.kind.String() + " move")
	}
	return m.from
}

// To returns the destination square.
func (m Move) To() Square {
	if m.kind == KindResign {
		panic("board: To called on resign move")
	}
	return m.to
}

// Piece returns the promotion or drop piece kind.
func (m Move) Piece() PieceType {
	if m.kind != KindPromotion && m.kind != KindDrop {
		panic("board: Piece called on " + m.kind.String() + " move")
	}
	return m.piece
}

// String returns the engine-protocol text of the move: "e2e4", "e7e8q",
// "P@d4" or "resign".
func (m Move) String() string {
	switch m.kind {
	case KindNormal:
		return m.from.String() + m.to.String()
	case KindPromotion:
		return m.from.String() + m.to.String() + strings.ToLower(string(m.piece.Char()))
	case KindDrop:
		return string(m.piece.Char()) + "@" + m.to.String()
	default:
		return "resign"
	}
}

// ParseMove parses the engine-protocol move text produced by String.
// Drop letters are accepted in either case.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if s == "resign" {
		return Resign, nil
	}

	if len(s) == 4 && s[1] == '@' {
		pt := PieceTypeFromChar(s[0])
		if pt == NoPieceType || pt == King {
			return Resign, fmt.Errorf("%w: bad drop piece in %q", ErrInvalidMove, s)
		}
		to, err := ParseSquare(s[2:4])
		if err != nil {
			return Resign, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		return NewDrop(pt, to), nil
	}

	if len(s) != 4 && len(s) != 5 {
		return Resign, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Resign, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Resign, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if from == to {
		return Resign, fmt.Errorf("%w: null move %q", ErrInvalidMove, s)
	}

	if len(s) == 5 {
		promo := PieceTypeFromChar(s[4])
		if promo == NoPieceType || promo == Pawn || promo == King {
			return Resign, fmt.Errorf("%w: bad promotion piece %c", ErrInvalidMove, s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a frame-owned sequence of moves.
type MoveList struct {
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 64)}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}

// Strings returns the protocol text of every move, in order.
func (ml *MoveList) Strings() []string {
	out := make([]string, len(ml.moves))
	for i, m := range ml.moves {
		out[i] = m.String()
	}
	return out
}
