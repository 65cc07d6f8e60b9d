package bot

import "github.com/hailam/sigsegv/internal/board"

// Files the king crosses or lands on when castling, per wing.
var (
	kingSideCorridor  = []int{5, 6}
	queenSideCorridor = []int{1, 2, 3}
)

// castle returns the engine's castling move, king side first.
func (b *Bot) castle() (board.Move, bool) {
	for _, kingSide := range []bool{true, false} {
		if m, ok := CastlingMove(b.pos, b.side, kingSide); ok {
			return m, true
		}
	}
	return board.Resign, false
}

// CastlingMove returns the king move that castles c on the given wing when
// it is allowed: the right is held, king and rook stand on their home
// squares, the king is not capturable, and every corridor square is empty
// and safe for the king.
func CastlingMove(pos *board.Position, c board.Color, kingSide bool) (board.Move, bool) {
	if !pos.CastlingRights.CanCastle(c, kingSide) {
		return board.Resign, false
	}

	rank := board.BackRank(c)
	from := board.NewSquare(4, rank)
	if pos.Board[from] != board.NewPiece(board.King, c) {
		return board.Resign, false
	}

	rookFile, toFile, corridor := 0, 2, queenSideCorridor
	if kingSide {
		rookFile, toFile, corridor = 7, 6, kingSideCorridor
	}
	rook := pos.Board[board.NewSquare(rookFile, rank)]
	if rook.Type() != board.Rook || rook.Color() != c {
		return board.Resign, false
	}

	if pos.KingCapturable(c) {
		return board.Resign, false
	}
	for _, file := range corridor {
		sq := board.NewSquare(file, rank)
		if !pos.IsEmpty(sq) || !pos.KingSafeOn(c, sq) {
			return board.Resign, false
		}
	}

	return board.NewMove(from, board.NewSquare(toFile, rank)), true
}
