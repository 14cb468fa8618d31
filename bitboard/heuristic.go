package bitboard

import "math/bits"

// cellWeights favour central cells, which take part in the most lines.
// Indexed [row][column]. Only defined for the 6x7 board.
var cellWeights = [6][7]int{
	{3, 4, 5, 7, 5, 4, 3},
	{4, 6, 8, 10, 8, 6, 4},
	{5, 8, 11, 13, 11, 8, 5},
	{5, 8, 11, 13, 11, 8, 5},
	{4, 6, 8, 10, 8, 6, 4},
	{3, 4, 5, 7, 5, 4, 3},
}

// MaxHeuristic is the sum of every weight, the largest value Evaluate can
// return.
const MaxHeuristic = 276

// Evaluate sums the weights of the cells set in position. It returns 0 for
// any board size other than the one the table was written for.
func (l *Layout) Evaluate(position uint64) int {
	if !l.weighted {
		return 0
	}
	total := 0
	for p := position & l.fullMask; p != 0; p &= p - 1 {
		idx := uint(bits.TrailingZeros64(p))
		total += cellWeights[idx%l.height][idx/l.height]
	}
	return total
}

// EvaluateDifference is the side to move's weight minus the opponent's.
func (l *Layout) EvaluateDifference(b Board) int {
	return l.Evaluate(b.Position) - l.Evaluate(b.Opponent())
}

// Weighted reports whether the heuristic table applies to this layout.
func (l *Layout) Weighted() bool {
	return l.weighted
}
