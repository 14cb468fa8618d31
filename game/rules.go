package game

import (
	"time"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/strategy"
)

// SearchLimits bound the work a computer player may do per move.
type SearchLimits struct {
	NodeBudget uint64
	Timeout    time.Duration
	// TableSizePowerOf2 is the log2 of the transposition table size.
	TableSizePowerOf2 int
}

func DefaultSearchLimits() SearchLimits {
	return SearchLimits{TableSizePowerOf2: minimax.DefaultTableSizePowerOf2}
}

// GameRules encapsulates what stays fixed for the life of a game: the
// board, the difficulty profiles and how hard computers may search.
type GameRules struct {
	layout   *bitboard.Layout
	profiles strategy.Profiles
	limits   SearchLimits
}

func NewGameRules(dims bitboard.Dims, profiles strategy.Profiles, limits SearchLimits) (*GameRules, error) {
	layout, err := bitboard.NewLayout(dims)
	if err != nil {
		return nil, err
	}
	return &GameRules{layout: layout, profiles: profiles, limits: limits}, nil
}

// DefaultGameRules is a 6x7 board, four in a row to win.
func DefaultGameRules() *GameRules {
	return &GameRules{
		layout:   bitboard.MustLayout(bitboard.DefaultDims()),
		profiles: strategy.DefaultProfiles(),
		limits:   DefaultSearchLimits(),
	}
}

func (r *GameRules) Dims() bitboard.Dims {
	return r.layout.Dims()
}

func (r *GameRules) Layout() *bitboard.Layout {
	return r.layout
}

func (r *GameRules) Profiles() strategy.Profiles {
	return r.profiles
}

func (r *GameRules) SearchLimits() SearchLimits {
	return r.limits
}

// NewStrategy returns a strategy, with its own transposition table, set
// up with these rules' search limits.
func (r *GameRules) NewStrategy(rng strategy.Randomizer) *strategy.Strategy {
	s := strategy.NewStrategy(r.layout, rng)
	s.SetTimeout(r.limits.Timeout)
	s.Solver().SetNodeBudget(r.limits.NodeBudget)
	if r.limits.TableSizePowerOf2 > 0 {
		s.Solver().SetTableSize(r.limits.TableSizePowerOf2)
	}
	return s
}
