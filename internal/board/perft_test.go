package board

import "testing"

// TestPerftStartingPosition tests move generation from the starting position.
// Nothing reaches a pool before ply 3 and nothing can be dropped before ply 5,
// so the first four depths match orthodox chess.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			if tc.depth == 4 && testing.Short() {
				t.Skip("skipping depth 4 in short mode")
			}
			got := pos.Perft(White, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}

	if pos.FEN() != StartFEN {
		t.Errorf("perft changed the position: %s", pos.FEN())
	}
}

// TestPerftDrops checks the drop count on an almost empty board.
func TestPerftDrops(t *testing.T) {
	// 62 empty squares, all 48 on ranks 2..7 among them.
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3[PN] w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	moves := pos.GenerateAll(White)

	var pawnDrops, knightDrops, kingMoves int
	for _, m := range moves.Slice() {
		switch {
		case m.IsDrop() && m.Piece() == Pawn:
			pawnDrops++
		case m.IsDrop() && m.Piece() == Knight:
			knightDrops++
		case m.IsNormal():
			kingMoves++
		}
	}

	if pawnDrops != 48 {
		t.Errorf("pawn drops = %d, want 48", pawnDrops)
	}
	if knightDrops != 62 {
		t.Errorf("knight drops = %d, want 62", knightDrops)
	}
	if kingMoves != 5 {
		t.Errorf("king moves = %d, want 5", kingMoves)
	}
}

// TestGenerationOrder checks that drops come first and board moves start
// from the mover's own back rank.
func TestGenerationOrder(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3[P] b - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	pos.Pool[Black][Rook] = 1

	moves := pos.GenerateAll(Black).Slice()
	if len(moves) == 0 {
		t.Fatal("no moves generated")
	}
	if !moves[0].IsDrop() || moves[0].Piece() != Rook {
		t.Errorf("first move = %s, want a rook drop", moves[0])
	}
	last := moves[len(moves)-1]
	if !last.IsNormal() || last.From() != E8 {
		t.Errorf("last move = %s, want a king move from e8", last)
	}
}

func TestPawnDropExcludesBackRanks(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3[P] w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	moves := pos.GenerateAll(White)

	if !moves.Contains(NewDrop(Pawn, D4)) {
		t.Error("expected P@d4 among White's moves")
	}
	for _, sq := range []Square{D1, D8, A1, H8} {
		if moves.Contains(NewDrop(Pawn, sq)) {
			t.Errorf("pawn drop on %s must not be generated", sq)
		}
	}
}

func TestEnPassantWindow(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	push := NewMove(E2, E4)
	capture := NewMove(D4, E3)

	pos.Apply(push, White)
	if !pos.GenerateAll(Black).Contains(capture) {
		t.Fatal("en passant d4e3 missing right after e2e4")
	}

	u := pos.Apply(capture, Black)
	if pos.Board[E4] != Empty {
		t.Error("en passant did not remove the pawn on e4")
	}
	if pos.Pool[Black][Pawn] != 1 {
		t.Errorf("black pawn pool = %d, want 1", pos.Pool[Black][Pawn])
	}
	pos.Revert(capture, u)

	// One full ply later the window is closed.
	pos.Apply(NewMove(E8, D8), Black)
	pos.Apply(NewMove(E1, D1), White)
	if pos.GenerateAll(Black).Contains(capture) {
		t.Error("en passant d4e3 still generated one ply later")
	}
}

func TestEnPassantFromFEN(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	if !pos.GenerateAll(Black).Contains(NewMove(D4, E3)) {
		t.Error("en passant d4e3 missing after FEN with e3 target")
	}
}

func TestPromotionIsQueenOnly(t *testing.T) {
	pos, err := ParseFEN("7k/P7/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	moves := pos.GenerateAll(White)
	if !moves.Contains(NewPromotion(A7, A8, Queen)) {
		t.Error("expected a7a8q")
	}
	for _, pt := range []PieceType{Rook, Bishop, Knight} {
		if moves.Contains(NewPromotion(A7, A8, pt)) {
			t.Errorf("under-promotion to %s generated", pt)
		}
	}
}

func TestGeneratorLeavesPositionUntouched(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := *pos
		pos.GenerateAll(White)
		pos.GenerateAll(Black)
		if *pos != before {
			t.Errorf("generation mutated %q", fen)
		}
	}
}
