// Package strategy turns search results into a move for a computer player
// of a given difficulty.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/minimax"
)

var (
	ErrNoLegalMoves   = errors.New("no legal moves")
	ErrInvalidSymbols = errors.New("invalid player symbols")
)

// Randomizer is the randomness a Strategy draws on. *frand.RNG satisfies
// it; tests pass a seeded one.
type Randomizer interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Strategy owns a Solver, and therefore a transposition table, so it
// must not be shared between goroutines.
type Strategy struct {
	layout  *bitboard.Layout
	solver  *minimax.Solver
	rng     Randomizer
	timeout time.Duration
}

// NewStrategy builds a strategy for boards of the given layout. A nil rng
// means a fresh frand generator.
func NewStrategy(layout *bitboard.Layout, rng Randomizer) *Strategy {
	if rng == nil {
		rng = frand.New()
	}
	return &Strategy{
		layout: layout,
		solver: minimax.NewSolver(layout),
		rng:    rng,
	}
}

// Solver exposes the underlying solver so callers can tune it.
func (s *Strategy) Solver() *minimax.Solver {
	return s.solver
}

// SetTimeout bounds the time spent on one decision. Zero means no bound.
func (s *Strategy) SetTimeout(d time.Duration) {
	s.timeout = d
}

type candidate struct {
	column int
	value  minimax.Value
}

// RankMoves orders the legal columns best first. Columns with a nil value
// are dropped. Higher scores come first; among equal scores a won line
// prefers the fewest plies and a lost line the most. Plies come from the
// search as found and are not guaranteed minimal when pruning is on.
// Remaining ties are broken at random.
func (s *Strategy) RankMoves(values []*minimax.Value) []int {
	cands := lo.FilterMap(values, func(v *minimax.Value, col int) (candidate, bool) {
		if v == nil {
			return candidate{}, false
		}
		return candidate{column: col, value: *v}, true
	})
	s.rng.Shuffle(len(cands), func(i, j int) {
		cands[i], cands[j] = cands[j], cands[i]
	})
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].value, cands[j].value
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return signedPly(a) < signedPly(b)
	})
	return lo.Map(cands, func(c candidate, _ int) int {
		return c.column
	})
}

func signedPly(v minimax.Value) int {
	if v.Score < 0 {
		return -v.Ply
	}
	return v.Ply
}

// ChooseMove walks the ranking and takes each column with probability p.
// If nothing is taken, any ranked column is picked uniformly.
func (s *Strategy) ChooseMove(ranked []int, p float64) int {
	if len(ranked) == 0 {
		panic("ChooseMove called with no candidates")
	}
	for _, col := range ranked {
		if s.rng.Float64() < p {
			return col
		}
	}
	return ranked[s.rng.Intn(len(ranked))]
}

func (s *Strategy) encode(g grid.View, sym, opp grid.Symbol) (bitboard.Board, error) {
	if sym == grid.Empty || opp == grid.Empty || sym == opp {
		return bitboard.Board{}, fmt.Errorf("%w: %v and %v", ErrInvalidSymbols, sym, opp)
	}
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Columns(); col++ {
			if c := g.At(row, col); c != grid.Empty && c != sym && c != opp {
				return bitboard.Board{}, fmt.Errorf("%w: found %v at row %d column %d",
					ErrInvalidSymbols, c, row, col)
			}
		}
	}
	return s.layout.Encode(g, sym), nil
}

func (s *Strategy) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// ComputeMove picks a column for sym to play on g. The column is always
// legal.
func (s *Strategy) ComputeMove(ctx context.Context, g grid.View, sym, opp grid.Symbol,
	profile Profile) (int, error) {

	b, err := s.encode(g, sym, opp)
	if err != nil {
		return 0, err
	}
	if len(s.layout.LegalMoves(b.Mask)) == 0 {
		return 0, ErrNoLegalMoves
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	values, err := s.solver.EvaluateMoves(ctx, b, profile.Depth)
	if err != nil {
		return 0, err
	}
	ranked := s.RankMoves(values)
	col := s.ChooseMove(ranked, profile.SelectProbability)
	log.Debug().
		Str("symbol", sym.String()).
		Int("depth", profile.Depth).
		Ints("ranked", ranked).
		Int("column", col).
		Uint64("nodes", s.solver.Nodes()).
		Msg("computed-move")
	return col, nil
}

// EvaluateMove scores every column for sym on g, searching depth plies
// past each move. Full columns are nil.
func (s *Strategy) EvaluateMove(ctx context.Context, g grid.View, sym grid.Symbol,
	depth int) ([]*minimax.Score, error) {

	if sym == grid.Empty {
		return nil, fmt.Errorf("%w: empty symbol", ErrInvalidSymbols)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	values, err := s.solver.EvaluateMoves(ctx, s.layout.Encode(g, sym), depth)
	if err != nil {
		return nil, err
	}
	return lo.Map(values, func(v *minimax.Value, _ int) *minimax.Score {
		if v == nil {
			return nil
		}
		return &v.Score
	}), nil
}
