package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the crazyhouse FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1"

// ErrInvalidFEN is returned for FEN text that cannot be parsed.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a crazyhouse FEN string and returns a Position.
//
// Pockets follow the placement either in brackets ("...RNBQKBNR[Qn]") or as
// a ninth rank ("...RNBQKBNR/Qn"). A '~' after a piece marks it promoted.
// The en passant field, when present, is turned into the double pawn push
// that allowed it so the generator can see it in LastMove.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := &Position{LastMove: Resign}

	placement, pockets, err := splitPockets(parts[0])
	if err != nil {
		return nil, err
	}
	if err := parsePiecePlacement(pos, placement); err != nil {
		return nil, err
	}
	if err := parsePockets(pos, pockets); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		pos.LastMove = doublePushThrough(pos, sq)
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	return pos, nil
}

// splitPockets separates the board placement from the pocket text.
func splitPockets(field string) (string, string, error) {
	if i := strings.IndexByte(field, '['); i >= 0 {
		if !strings.HasSuffix(field, "]") {
			return "", "", fmt.Errorf("%w: unterminated pocket in %q", ErrInvalidFEN, field)
		}
		return field[:i], field[i+1 : len(field)-1], nil
	}
	if strings.Count(field, "/") == 8 {
		i := strings.LastIndexByte(field, '/')
		return field[:i], field[i+1:], nil
	}
	return field, "", nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}
			piece := PieceFromChar(c)
			if piece == Empty {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			if j+1 < len(rankStr) && rankStr[j+1] == '~' {
				piece = piece.Promoted()
				j++
			}
			pos.Board[NewSquare(file, rank)] = piece
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// parsePockets fills the reserve pools: uppercase letters for White,
// lowercase for Black.
func parsePockets(pos *Position, pockets string) error {
	if pockets == "-" {
		return nil
	}
	for i := 0; i < len(pockets); i++ {
		piece := PieceFromChar(pockets[i])
		if piece == Empty || piece.Type() == King {
			return fmt.Errorf("%w: pocket piece %q", ErrInvalidFEN, pockets[i])
		}
		pos.Pool[piece.Color()][piece.Type()]++
	}
	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: castling character %q", ErrInvalidFEN, c)
		}
	}

	return nil
}

// doublePushThrough returns the pawn double push that crossed ep, or Resign
// when the board does not show such a pawn.
func doublePushThrough(pos *Position, ep Square) Move {
	var from, to Square
	var ok1, ok2 bool
	var mover Color
	switch ep.Rank() {
	case 2:
		mover = White
		from, ok1 = ep.Offset(-1, 0)
		to, ok2 = ep.Offset(1, 0)
	case 5:
		mover = Black
		from, ok1 = ep.Offset(1, 0)
		to, ok2 = ep.Offset(-1, 0)
	default:
		return Resign
	}
	if !ok1 || !ok2 || pos.Board[to] != NewPiece(Pawn, mover) {
		return Resign
	}
	return NewMove(from, to)
}

// enPassantSquare returns the square skipped by the last move when it was a
// pawn double push, NoSquare otherwise.
func (p *Position) enPassantSquare() Square {
	m := p.LastMove
	if !m.IsNormal() {
		return NoSquare
	}
	from, to := m.From(), m.To()
	if from.File() != to.File() || absInt(to.Rank()-from.Rank()) != 2 {
		return NoSquare
	}
	if p.Board[to].Type() != Pawn || p.Board[to].IsPromoted() {
		return NoSquare
	}
	return NewSquare(from.File(), (from.Rank()+to.Rank())/2)
}

// poolString returns the pocket contents, White's pieces first.
func (p *Position) poolString() string {
	var sb strings.Builder
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt < PoolKinds; pt++ {
			ch := pt.Char()
			if c == Black {
				ch += 'a' - 'A'
			}
			for i := 0; i < p.Pool[c][pt]; i++ {
				sb.WriteByte(ch)
			}
		}
	}
	return sb.String()
}

// FEN returns the crazyhouse FEN of the position. The full-move number is
// not tracked and is always written as 1.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte('[')
	sb.WriteString(p.poolString())
	sb.WriteByte(']')

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	if ep := p.enPassantSquare(); ep != NoSquare {
		sb.WriteString(ep.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteString(" 1")

	return sb.String()
}
