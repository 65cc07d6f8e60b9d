package board

import (
	"errors"
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		in   string
		want Move
	}{
		{"e2e4", NewMove(E2, E4)},
		{"e7e8q", NewPromotion(E7, E8, Queen)},
		{"a2a1n", NewPromotion(A2, A1, Knight)},
		{"P@d4", NewDrop(Pawn, D4)},
		{"n@f3", NewDrop(Knight, F3)},
		{"resign", Resign},
		{" g1f3\n", NewMove(G1, F3)},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMove(tc.in)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseMove(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	for _, in := range []string{"", "e2", "e2e2", "e2e9", "K@e4", "X@e4", "e7e8k", "e7e8p", "i2i4"} {
		if _, err := ParseMove(in); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", in, err)
		}
	}
}

func TestMoveString(t *testing.T) {
	tests := []struct {
		m    Move
		want string
	}{
		{NewMove(E2, E4), "e2e4"},
		{NewPromotion(B7, A8, Queen), "b7a8q"},
		{NewDrop(Bishop, C6), "B@c6"},
		{Resign, "resign"},
	}

	for _, tc := range tests {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestMoveAccessorsPanicOnWrongVariant(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"From on drop", func() { NewDrop(Pawn, E4).From() }},
		{"To on resign", func() { Resign.To() }},
		{"Piece on normal", func() { NewMove(E2, E4).Piece() }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tc.fn()
		})
	}
}

func TestPieceCodes(t *testing.T) {
	if NewPiece(Pawn, White) != WhitePawn || NewPiece(King, Black) != BlackKing {
		t.Fatal("piece codes do not follow pawn, rook, bishop, knight, queen, king")
	}
	for pt := Pawn; pt <= King; pt++ {
		for c := White; c <= Black; c++ {
			p := NewPiece(pt, c)
			if p.Type() != pt || p.Color() != c {
				t.Errorf("NewPiece(%s, %s) decodes as %s %s", pt, c, p.Color(), p.Type())
			}
			if q := p.Promoted(); q.Type() != pt || q.Color() != c || !q.IsPromoted() {
				t.Errorf("promoted %v decodes wrong", p)
			}
		}
	}
	if Empty.Color() != NoColor || Empty.Type() != NoPieceType {
		t.Error("empty square must have no color and no type")
	}
}
