// Package player has the two kinds of participant in a game: humans, who
// are asked for moves through a MoveSource, and computers, which search.
package player

import (
	"context"

	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/strategy"
)

type Player interface {
	Name() string
	Symbol() grid.Symbol
	IsComputer() bool
	// GetMove returns the column to play on g. g must not be modified.
	GetMove(ctx context.Context, g *grid.Grid) (int, error)
	// RegisterError tells the player its last move was rejected.
	RegisterError(err error)
}

// MoveSource is whatever asks a human for a move, usually a console.
type MoveSource interface {
	RequestMove(ctx context.Context, p Player, g *grid.Grid) (int, error)
	IllegalMove(p Player, err error)
}

type base struct {
	name   string
	symbol grid.Symbol
}

func (b *base) Name() string        { return b.name }
func (b *base) Symbol() grid.Symbol { return b.symbol }

type Human struct {
	base
	source MoveSource
}

func NewHuman(name string, sym grid.Symbol, source MoveSource) *Human {
	return &Human{base: base{name: name, symbol: sym}, source: source}
}

func (h *Human) IsComputer() bool { return false }

func (h *Human) GetMove(ctx context.Context, g *grid.Grid) (int, error) {
	return h.source.RequestMove(ctx, h, g)
}

func (h *Human) RegisterError(err error) {
	h.source.IllegalMove(h, err)
}

type Computer struct {
	base
	opponent   grid.Symbol
	difficulty strategy.Difficulty
	profile    strategy.Profile
	strategy   *strategy.Strategy
}

func NewComputer(name string, sym grid.Symbol, d strategy.Difficulty, profile strategy.Profile,
	strat *strategy.Strategy) *Computer {

	return &Computer{
		base:       base{name: name, symbol: sym},
		difficulty: d,
		profile:    profile,
		strategy:   strat,
	}
}

func (c *Computer) IsComputer() bool { return true }

func (c *Computer) Difficulty() strategy.Difficulty { return c.difficulty }

func (c *Computer) Profile() strategy.Profile { return c.profile }

func (c *Computer) Strategy() *strategy.Strategy { return c.strategy }

// SetOpponent must be called before the first move, once the other player
// is known.
func (c *Computer) SetOpponent(sym grid.Symbol) {
	c.opponent = sym
}

func (c *Computer) GetMove(ctx context.Context, g *grid.Grid) (int, error) {
	return c.strategy.ComputeMove(ctx, g, c.symbol, c.opponent, c.profile)
}

// RegisterError does nothing; the game loop treats a rejected computer
// move as fatal.
func (c *Computer) RegisterError(err error) {}
