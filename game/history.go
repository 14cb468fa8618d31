package game

import (
	"errors"
	"fmt"

	"github.com/domino14/connectfour/grid"
)

var ErrNoSuchTurn = errors.New("no such turn")

// Turn is the state of the game after a move. Turn 0 is the empty grid and
// has no move.
type Turn struct {
	Number int
	Grid   *grid.Grid
	Column int
	Row    int
}

func (t Turn) HasMove() bool {
	return t.Number > 0
}

// Cell is the cell the move landed in, for highlighting.
func (t Turn) Cell() (grid.Cell, bool) {
	if !t.HasMove() {
		return grid.Cell{}, false
	}
	return grid.Cell{Row: t.Row, Column: t.Column}, true
}

// History is every turn of a game, in order. It lives only in memory.
type History struct {
	turns []Turn
}

func newHistory(initial *grid.Grid) *History {
	return &History{turns: []Turn{{Number: 0, Grid: initial.Copy(), Column: -1, Row: -1}}}
}

func (h *History) add(g *grid.Grid, column, row int) Turn {
	t := Turn{Number: len(h.turns), Grid: g.Copy(), Column: column, Row: row}
	h.turns = append(h.turns, t)
	return t
}

// Len counts recorded turns, including turn 0.
func (h *History) Len() int {
	return len(h.turns)
}

// Last is the most recent turn number.
func (h *History) Last() int {
	return len(h.turns) - 1
}

func (h *History) Turn(n int) (Turn, error) {
	if n < 0 || n >= len(h.turns) {
		return Turn{}, fmt.Errorf("%w: %d (have 0 to %d)", ErrNoSuchTurn, n, h.Last())
	}
	return h.turns[n], nil
}

// Moves lists the column played on every turn after 0.
func (h *History) Moves() []int {
	moves := make([]int, 0, len(h.turns)-1)
	for _, t := range h.turns[1:] {
		moves = append(moves, t.Column)
	}
	return moves
}
