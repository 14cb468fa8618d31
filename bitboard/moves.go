package bitboard

import (
	"fmt"
	"math/bits"
)

// IsColumnFull is true when the column's top playable cell is taken. The
// guard bit above it stays clear; a set guard bit would mean a move was
// applied to a full column.
func (l *Layout) IsColumnFull(mask uint64, column int) bool {
	l.checkColumn(column)
	return mask&l.topBit(column) != 0
}

// ApplyMove drops a piece for the side to move and returns the board from
// the opponent's point of view. Adding the column's bottom bit to the mask
// carries through the occupied cells into the first empty one.
func (l *Layout) ApplyMove(b Board, column int) Board {
	if l.IsColumnFull(b.Mask, column) {
		panic(fmt.Sprintf("move into full column %d", column))
	}
	return Board{
		Position: b.Position ^ b.Mask,
		Mask:     b.Mask | (b.Mask + l.bottomBit(column)),
	}
}

// LegalMoves lists the columns that are not full, left to right.
func (l *Layout) LegalMoves(mask uint64) []int {
	moves := make([]int, 0, l.dims.Columns)
	for col := 0; col < l.dims.Columns; col++ {
		if !l.IsColumnFull(mask, col) {
			moves = append(moves, col)
		}
	}
	return moves
}

// ColumnHeight counts the pieces in a column.
func (l *Layout) ColumnHeight(mask uint64, column int) int {
	l.checkColumn(column)
	col := (mask >> (uint(column) * l.height)) & (1<<uint(l.dims.Rows) - 1)
	return bits.Len64(col)
}
