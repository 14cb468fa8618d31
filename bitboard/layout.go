// Package bitboard encodes a connection-game grid as a pair of 64-bit
// integers and implements the bit tricks the search engine relies on.
//
// Column c occupies bits [c*(rows+1), (c+1)*(rows+1)), lowest row in the
// least significant bit. The topmost bit of each block is a guard bit that
// is never set; it keeps shifted copies of a column from bleeding into its
// neighbour.
package bitboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/connectfour/grid"
)

var ErrInvalidDimensions = errors.New("invalid board dimensions")

// Dims are fixed for the life of a game.
type Dims struct {
	Rows      int
	Columns   int
	WinLength int
}

func DefaultDims() Dims {
	return Dims{Rows: grid.DefaultRows, Columns: grid.DefaultColumns, WinLength: grid.DefaultWinLength}
}

// Validate checks that the board fits in a single uint64 including the
// guard bits.
func (d Dims) Validate() error {
	if d.Rows < 1 || d.Columns < 1 || d.WinLength < 1 {
		return fmt.Errorf("%w: %dx%d, win length %d", ErrInvalidDimensions, d.Rows, d.Columns, d.WinLength)
	}
	if d.Columns*(d.Rows+1) > 64 {
		return fmt.Errorf("%w: %d columns of height %d need %d bits", ErrInvalidDimensions,
			d.Columns, d.Rows, d.Columns*(d.Rows+1))
	}
	return nil
}

func (d Dims) Cells() int {
	return d.Rows * d.Columns
}

// Board is the (position, mask) pair. Mask has a bit for every occupied
// cell. Position has a bit for every cell held by the side to move, so the
// opponent's cells are Mask ^ Position.
type Board struct {
	Position uint64
	Mask     uint64
}

// Opponent returns the cells of the player who made the last move.
func (b Board) Opponent() uint64 {
	return b.Position ^ b.Mask
}

// Flip switches perspective without making a move.
func (b Board) Flip() Board {
	return Board{Position: b.Position ^ b.Mask, Mask: b.Mask}
}

// Layout holds everything derived from Dims: the column height in bits,
// the full-board mask and the shift amount of each line direction.
type Layout struct {
	dims     Dims
	height   uint
	fullMask uint64

	// vertical, horizontal, and the two diagonals
	shifts [4]uint

	// heuristic table applies only to the board size it was authored for
	weighted bool
}

func NewLayout(d Dims) (*Layout, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	h := uint(d.Rows + 1)
	l := &Layout{
		dims:   d,
		height: h,
		shifts: [4]uint{1, h, h - 1, h + 1},
	}
	colMask := uint64(1)<<uint(d.Rows) - 1
	for c := 0; c < d.Columns; c++ {
		l.fullMask |= colMask << (uint(c) * h)
	}
	l.weighted = d.Rows == len(cellWeights) && d.Columns == len(cellWeights[0])
	return l, nil
}

// MustLayout is NewLayout for dimensions known to be valid.
func MustLayout(d Dims) *Layout {
	l, err := NewLayout(d)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) Dims() Dims {
	return l.dims
}

// FullMask is the mask value of a board with every playable cell filled.
func (l *Layout) FullMask() uint64 {
	return l.fullMask
}

// IsFull reports whether every column is full.
func (l *Layout) IsFull(mask uint64) bool {
	return mask == l.fullMask
}

func (l *Layout) checkColumn(column int) {
	if column < 0 || column >= l.dims.Columns {
		panic(fmt.Sprintf("column %d out of range [0, %d)", column, l.dims.Columns))
	}
}

func (l *Layout) checkRow(row int) {
	if row < 0 || row >= l.dims.Rows {
		panic(fmt.Sprintf("row %d out of range [0, %d)", row, l.dims.Rows))
	}
}

// Bit returns the single-bit mask of a cell.
func (l *Layout) Bit(row, column int) uint64 {
	l.checkRow(row)
	l.checkColumn(column)
	return 1 << (uint(column)*l.height + uint(row))
}

func (l *Layout) bottomBit(column int) uint64 {
	return 1 << (uint(column) * l.height)
}

func (l *Layout) topBit(column int) uint64 {
	return 1 << (uint(column)*l.height + uint(l.dims.Rows) - 1)
}

// GuardBit returns the sentinel bit above a column.
func (l *Layout) GuardBit(column int) uint64 {
	l.checkColumn(column)
	return 1 << (uint(column)*l.height + uint(l.dims.Rows))
}

// Format renders a bit pattern as rows of 0/1, guard row on top. Useful
// when debugging shifts.
func (l *Layout) Format(bits uint64) string {
	var sb strings.Builder
	for row := l.dims.Rows; row >= 0; row-- {
		for col := 0; col < l.dims.Columns; col++ {
			if bits&(1<<(uint(col)*l.height+uint(row))) != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
