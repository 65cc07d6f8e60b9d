package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece.
// The first five kinds double as reserve pool indexes.
type PieceType uint8

const (
	Pawn PieceType = iota
	Rook
	Bishop
	Knight
	Queen
	King
	NoPieceType PieceType = 6
)

// PoolKinds is the number of piece kinds that can be held in reserve.
const PoolKinds = 5

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Rook:
		return "Rook"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the upper case letter used for the kind in drop notation and FEN.
func (pt PieceType) Char() byte {
	chars := []byte{'P', 'R', 'B', 'N', 'Q', 'K', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// PieceTypeFromChar converts a piece letter of either case to a PieceType.
func PieceTypeFromChar(c byte) PieceType {
	switch c {
	case 'P', 'p':
		return Pawn
	case 'R', 'r':
		return Rook
	case 'B', 'b':
		return Bishop
	case 'N', 'n':
		return Knight
	case 'Q', 'q':
		return Queen
	case 'K', 'k':
		return King
	default:
		return NoPieceType
	}
}

// piecePoints holds the material value of each kind, in pawns.
var piecePoints = [7]int{1, 5, 3, 3, 9, 100, 0}

// Points returns the material value of the piece type.
func (pt PieceType) Points() int {
	if pt > NoPieceType {
		return 0
	}
	return piecePoints[pt]
}

// Piece is the signed board code of a piece.
//
// 0 is an empty square, 1..6 are White pawn, rook, bishop, knight, queen and
// king, 7..12 the same kinds for Black. A promoted pawn is stored as the
// negation of the code of the piece it became.
type Piece int8

const (
	Empty       Piece = 0
	WhitePawn   Piece = 1
	WhiteRook   Piece = 2
	WhiteBishop Piece = 3
	WhiteKnight Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6
	BlackPawn   Piece = 7
	BlackRook   Piece = 8
	BlackBishop Piece = 9
	BlackKnight Piece = 10
	BlackQueen  Piece = 11
	BlackKing   Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return Empty
	}
	return Piece(pt) + Piece(c)*6 + 1
}

// Promoted returns the code stored for a pawn that promoted into this piece.
func (p Piece) Promoted() Piece {
	if p < 0 {
		return p
	}
	return -p
}

// IsPromoted reports whether the piece is a promoted pawn.
func (p Piece) IsPromoted() bool {
	return p < 0
}

// abs strips the promotion marker.
func (p Piece) abs() Piece {
	if p < 0 {
		return -p
	}
	return p
}

// Type returns the PieceType of the piece. Promoted pieces report the kind
// they promoted into.
func (p Piece) Type() PieceType {
	a := p.abs()
	if a == Empty || a > BlackKing {
		return NoPieceType
	}
	return PieceType((a - 1) % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	a := p.abs()
	switch {
	case a == Empty || a > BlackKing:
		return NoColor
	case a <= WhiteKing:
		return White
	default:
		return Black
	}
}

// PoolType returns the kind that goes into the capturer's pool when the
// piece is taken. Promoted pieces return to the pool as pawns.
func (p Piece) PoolType() PieceType {
	if p.IsPromoted() {
		return Pawn
	}
	return p.Type()
}

// Points returns the material value of the piece. Promoted pieces count at
// their promoted value.
func (p Piece) Points() int {
	return p.Type().Points()
}

// String returns the FEN character for the piece, with a trailing '~' for
// promoted pieces. Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p == Empty {
		return "."
	}
	c := p.Type().Char()
	if p.Color() == Black {
		c += 'a' - 'A'
	}
	if p.IsPromoted() {
		return string(c) + "~"
	}
	return string(c)
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	pt := PieceTypeFromChar(c)
	if pt == NoPieceType {
		return Empty
	}
	if c >= 'a' && c <= 'z' {
		return NewPiece(pt, Black)
	}
	return NewPiece(pt, White)
}
