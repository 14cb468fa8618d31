// Package grid holds the human-readable connection-game board. It keeps
// per-cell occupants for display and does the simple rule bookkeeping (wins
// by scanning lines, full-board detection). The search engine never uses it
// directly; it works on the bitboard encoding instead.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultRows      = 6
	DefaultColumns   = 7
	DefaultWinLength = 4
)

var (
	ErrColumnFull       = errors.New("column is full")
	ErrColumnOutOfRange = errors.New("column is out of range")
)

// Symbol is the marker a player drops into the grid. Empty cells hold
// the zero Symbol.
type Symbol byte

const Empty Symbol = 0

func (s Symbol) String() string {
	if s == Empty {
		return "_"
	}
	return string(rune(s))
}

// ParseSymbol accepts a single letter; it is upper-cased.
func ParseSymbol(s string) (Symbol, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return Empty, fmt.Errorf("symbol must be a single letter, got %q", s)
	}
	return Symbol(s[0]), nil
}

// View is the read-only capability the bitboard codec needs. Row 0 is the
// bottom row.
type View interface {
	Rows() int
	Columns() int
	At(row, column int) Symbol
}

type DropStatus int

const (
	Placed DropStatus = iota
	ColumnFull
	ColumnOutOfRange
)

// DropResult is the outcome of AddPiece. Row is only meaningful when the
// piece was Placed.
type DropResult struct {
	Status DropStatus
	Row    int
}

// Err converts a failed drop into an error, or nil if the piece was placed.
func (r DropResult) Err() error {
	switch r.Status {
	case ColumnFull:
		return ErrColumnFull
	case ColumnOutOfRange:
		return ErrColumnOutOfRange
	}
	return nil
}

// Cell addresses a single square.
type Cell struct {
	Row    int
	Column int
}

type Grid struct {
	rows      int
	columns   int
	winLength int
	cells     []Symbol
	heights   []int
}

func New(rows, columns, winLength int) *Grid {
	if rows < 1 || columns < 1 || winLength < 1 {
		panic(fmt.Sprintf("invalid grid dimensions %dx%d (win %d)", rows, columns, winLength))
	}
	return &Grid{
		rows:      rows,
		columns:   columns,
		winLength: winLength,
		cells:     make([]Symbol, rows*columns),
		heights:   make([]int, columns),
	}
}

func NewDefault() *Grid {
	return New(DefaultRows, DefaultColumns, DefaultWinLength)
}

func (g *Grid) Rows() int      { return g.rows }
func (g *Grid) Columns() int   { return g.columns }
func (g *Grid) WinLength() int { return g.winLength }

func (g *Grid) idx(row, column int) int {
	if row < 0 || row >= g.rows || column < 0 || column >= g.columns {
		panic(fmt.Sprintf("cell (%d, %d) outside %dx%d grid", row, column, g.rows, g.columns))
	}
	return row*g.columns + column
}

func (g *Grid) At(row, column int) Symbol {
	return g.cells[g.idx(row, column)]
}

// Set writes a cell directly, bypassing gravity. It is meant for building
// fixtures and decoding diagnostics, not for play.
func (g *Grid) Set(row, column int, s Symbol) {
	g.cells[g.idx(row, column)] = s
	h := 0
	for r := g.rows - 1; r >= 0; r-- {
		if g.cells[r*g.columns+column] != Empty {
			h = r + 1
			break
		}
	}
	g.heights[column] = h
}

// ColumnHeight returns how many pieces sit in the column.
func (g *Grid) ColumnHeight(column int) int {
	return g.heights[column]
}

// AddPiece drops a piece into a column.
func (g *Grid) AddPiece(column int, s Symbol) DropResult {
	if column < 0 || column >= g.columns {
		return DropResult{Status: ColumnOutOfRange}
	}
	row := g.heights[column]
	if row >= g.rows {
		return DropResult{Status: ColumnFull}
	}
	g.cells[g.idx(row, column)] = s
	g.heights[column]++
	return DropResult{Status: Placed, Row: row}
}

// Full is true when every column is filled to the top.
func (g *Grid) Full() bool {
	for _, h := range g.heights {
		if h < g.rows {
			return false
		}
	}
	return true
}

func (g *Grid) NumPieces() int {
	n := 0
	for _, h := range g.heights {
		n += h
	}
	return n
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// CheckWin scans every line for winLength equal symbols in a row and
// returns the winning symbol.
func (g *Grid) CheckWin() (Symbol, bool) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.columns; col++ {
			s := g.cells[row*g.columns+col]
			if s == Empty {
				continue
			}
			for _, d := range directions {
				if g.runFrom(row, col, d[0], d[1], s) {
					return s, true
				}
			}
		}
	}
	return Empty, false
}

func (g *Grid) runFrom(row, col, dr, dc int, s Symbol) bool {
	for k := 1; k < g.winLength; k++ {
		r, c := row+dr*k, col+dc*k
		if r < 0 || r >= g.rows || c < 0 || c >= g.columns {
			return false
		}
		if g.cells[r*g.columns+c] != s {
			return false
		}
	}
	return true
}

// Symbols returns the distinct symbols present on the grid.
func (g *Grid) Symbols() []Symbol {
	seen := map[Symbol]bool{}
	var out []Symbol
	for _, s := range g.cells {
		if s != Empty && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func (g *Grid) Copy() *Grid {
	c := &Grid{
		rows:      g.rows,
		columns:   g.columns,
		winLength: g.winLength,
		cells:     make([]Symbol, len(g.cells)),
		heights:   make([]int, len(g.heights)),
	}
	copy(c.cells, g.cells)
	copy(c.heights, g.heights)
	return c
}

// Decorator renders an occupied cell. The shell uses it to add color.
type Decorator func(s Symbol, highlighted bool) string

// ToDisplayText draws the grid top row first, followed by 1-based column
// numbers.
func (g *Grid) ToDisplayText(decorate Decorator, highlight ...Cell) string {
	var sb strings.Builder
	for row := g.rows - 1; row >= 0; row-- {
		for col := 0; col < g.columns; col++ {
			s := g.At(row, col)
			if s == Empty {
				sb.WriteString("|_| ")
				continue
			}
			hl := false
			for _, h := range highlight {
				if h.Row == row && h.Column == col {
					hl = true
					break
				}
			}
			sb.WriteString("|")
			if decorate != nil {
				sb.WriteString(decorate(s, hl))
			} else {
				sb.WriteString(s.String())
			}
			sb.WriteString("| ")
		}
		sb.WriteString("\n")
	}
	for col := 0; col < g.columns; col++ {
		sb.WriteString(fmt.Sprintf(" %d  ", col+1))
	}
	return sb.String()
}

func (g *Grid) String() string {
	return g.ToDisplayText(nil)
}
