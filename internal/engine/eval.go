package engine

import "github.com/hailam/sigsegv/internal/board"

// Evaluate returns the material balance from side's point of view: the
// points of side's pieces on the board minus the opponent's. Pools are not
// counted; promoted pieces count at their promoted value.
func Evaluate(pos *board.Position, side board.Color) int {
	score := 0
	for sq := board.A1; sq <= board.H8; sq++ {
		piece := pos.Board[sq]
		switch piece.Color() {
		case side:
			score += piece.Points()
		case side.Other():
			score -= piece.Points()
		}
	}
	return score
}
