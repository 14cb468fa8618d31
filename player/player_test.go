package player

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/strategy"
)

type queueSource struct {
	moves  []int
	errors []error
}

func (q *queueSource) RequestMove(ctx context.Context, p Player, g *grid.Grid) (int, error) {
	m := q.moves[0]
	q.moves = q.moves[1:]
	return m, nil
}

func (q *queueSource) IllegalMove(p Player, err error) {
	q.errors = append(q.errors, err)
}

func TestHuman(t *testing.T) {
	is := is.New(t)
	src := &queueSource{moves: []int{3, 5}}
	h := NewHuman("Harry", 'R', src)
	is.Equal(h.Name(), "Harry")
	is.Equal(h.Symbol(), grid.Symbol('R'))
	is.True(!h.IsComputer())

	m, err := h.GetMove(context.Background(), grid.NewDefault())
	is.NoErr(err)
	is.Equal(m, 3)

	h.RegisterError(grid.ErrColumnFull)
	is.Equal(len(src.errors), 1)
	is.True(errors.Is(src.errors[0], grid.ErrColumnFull))
}

func TestComputer(t *testing.T) {
	is := is.New(t)
	layout := bitboard.MustLayout(bitboard.DefaultDims())
	strat := strategy.NewStrategy(layout, frand.NewCustom(make([]byte, 32), 1024, 12))
	c := NewComputer("Hal", 'B', strategy.Hard, strategy.Profile{Depth: 3, SelectProbability: 1}, strat)
	c.SetOpponent('R')
	is.True(c.IsComputer())
	is.Equal(c.Difficulty(), strategy.Hard)

	// Red threatens column 0.
	g := grid.MustFromColumns(6, 7, 4, "RRR", "B", "B")
	m, err := c.GetMove(context.Background(), g)
	is.NoErr(err)
	is.Equal(m, 0)
}
