package bitboard

import (
	"fmt"

	"github.com/domino14/connectfour/grid"
)

func (l *Layout) checkView(g grid.View) {
	if g.Rows() != l.dims.Rows || g.Columns() != l.dims.Columns {
		panic(fmt.Sprintf("grid is %dx%d, layout is %dx%d",
			g.Rows(), g.Columns(), l.dims.Rows, l.dims.Columns))
	}
}

// Encode converts a grid into a Board seen from sym's perspective. Any
// occupant other than sym counts as the opponent.
func (l *Layout) Encode(g grid.View, sym grid.Symbol) Board {
	l.checkView(g)
	var b Board
	for col := 0; col < l.dims.Columns; col++ {
		for row := 0; row < l.dims.Rows; row++ {
			s := g.At(row, col)
			if s == grid.Empty {
				continue
			}
			bit := uint64(1) << (uint(col)*l.height + uint(row))
			b.Mask |= bit
			if s == sym {
				b.Position |= bit
			}
		}
	}
	return b
}

// Decode rebuilds a grid from a Board. Cells in Position get player, the
// rest of Mask gets opponent. For diagnostics only.
func (l *Layout) Decode(b Board, player, opponent grid.Symbol) *grid.Grid {
	g := grid.New(l.dims.Rows, l.dims.Columns, l.dims.WinLength)
	for col := 0; col < l.dims.Columns; col++ {
		for row := 0; row < l.dims.Rows; row++ {
			bit := uint64(1) << (uint(col)*l.height + uint(row))
			switch {
			case b.Position&bit != 0:
				g.Set(row, col, player)
			case b.Mask&bit != 0:
				g.Set(row, col, opponent)
			}
		}
	}
	return g
}
