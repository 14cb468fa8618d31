// Package minimax searches connection-game positions with depth-limited
// minimax, alpha-beta pruning and a transposition table.
package minimax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/bitboard"
)

var (
	ErrNodeBudgetExceeded = errors.New("search node budget exceeded")
	ErrNegativeDepth      = errors.New("search depth must not be negative")
)

// The context is polled once every pollInterval nodes.
const pollInterval = 1 << 12

// Solver owns one transposition table. Every call to Search,
// EvaluatePosition or EvaluateMoves starts from a cleared table, so cached
// values never leak from one decision into the next. A Solver must not be
// used from more than one goroutine at a time.
type Solver struct {
	layout *bitboard.Layout
	ttable *TranspositionTable

	ttSizePowerOf2 int
	nodeBudget     uint64
	nodes          uint64

	transpositionTableOptim bool
	alphaBetaOptim          bool
}

func NewSolver(layout *bitboard.Layout) *Solver {
	return &Solver{
		layout:                  layout,
		ttable:                  &TranspositionTable{},
		ttSizePowerOf2:          DefaultTableSizePowerOf2,
		transpositionTableOptim: true,
		alphaBetaOptim:          true,
	}
}

func (s *Solver) Layout() *bitboard.Layout {
	return s.layout
}

// SetTranspositionTableOptim turns caching on or off.
func (s *Solver) SetTranspositionTableOptim(on bool) {
	s.transpositionTableOptim = on
}

// SetAlphaBetaOptim turns pruning on or off. With it off the search is
// plain minimax.
func (s *Solver) SetAlphaBetaOptim(on bool) {
	s.alphaBetaOptim = on
}

// SetTableSize sets the table to 2^powerOf2 entries.
func (s *Solver) SetTableSize(powerOf2 int) {
	s.ttSizePowerOf2 = powerOf2
}

// SetNodeBudget aborts a search after this many nodes. Zero means no limit.
func (s *Solver) SetNodeBudget(nodes uint64) {
	s.nodeBudget = nodes
}

// Nodes returns the number of nodes visited by the last search.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

func (s *Solver) TableStats() TableStats {
	return s.ttable.Stats()
}

func (s *Solver) prepare(depth int) (int, error) {
	if depth < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeDepth, depth)
	}
	// Searching deeper than there are cells changes nothing; clamping keeps
	// depths inside a TableEntry.
	if cells := s.layout.Dims().Cells(); depth > cells {
		depth = cells
	}
	s.nodes = 0
	if s.transpositionTableOptim {
		s.ttable.Reset(s.ttSizePowerOf2)
	}
	return depth, nil
}

func (s *Solver) logStats(msg string, depth int, tstart time.Time) {
	st := s.ttable.Stats()
	log.Debug().
		Int("depth", depth).
		Uint64("nodes", s.nodes).
		Uint64("ttable-created", st.Created).
		Uint64("ttable-lookups", st.Lookups).
		Uint64("ttable-hits", st.Hits).
		Uint64("ttable-t2collisions", st.T2Collisions).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg(msg)
}

// Search runs minimax from b with the given window. isMaximizing is true
// when the side to move in b is the player scores are reported for.
func (s *Solver) Search(ctx context.Context, b bitboard.Board, isMaximizing bool, depth int,
	α, β Score) (Value, error) {

	depth, err := s.prepare(depth)
	if err != nil {
		return Value{}, err
	}
	tstart := time.Now()
	v, err := s.minimax(ctx, b, isMaximizing, depth, α, β)
	s.logStats("search-returning", depth, tstart)
	return v, err
}

// EvaluatePosition scores b for the side to move.
func (s *Solver) EvaluatePosition(ctx context.Context, b bitboard.Board, depth int) (Value, error) {
	return s.Search(ctx, b, true, depth, NegInfinity, Infinity)
}

// EvaluateMoves scores every column for the side to move in b. Each move is
// searched to depth plies past the move itself with a full window, so the
// scores are exact rather than bounds. Full columns get nil. The ply count
// includes the move, so an immediate win is {Infinity, 1}.
func (s *Solver) EvaluateMoves(ctx context.Context, b bitboard.Board, depth int) ([]*Value, error) {
	depth, err := s.prepare(depth)
	if err != nil {
		return nil, err
	}
	tstart := time.Now()
	cols := s.layout.Dims().Columns
	values := make([]*Value, cols)
	for col := 0; col < cols; col++ {
		if s.layout.IsColumnFull(b.Mask, col) {
			continue
		}
		child := s.layout.ApplyMove(b, col)
		v, err := s.child(ctx, child, false, depth, NegInfinity, Infinity)
		if err != nil {
			return nil, err
		}
		v.Ply++
		values[col] = &v
	}
	s.logStats("evaluate-moves-returning", depth, tstart)
	return values, nil
}

func (s *Solver) heuristic(b bitboard.Board, isMax bool) Score {
	v := Score(s.layout.EvaluateDifference(b))
	if !isMax {
		return -v
	}
	return v
}

// child searches one successor, consulting the table first. Results are
// stored with a bound flag relative to the window they were searched with.
func (s *Solver) child(ctx context.Context, b bitboard.Board, isMax bool, depth int,
	α, β Score) (Value, error) {

	if s.transpositionTableOptim {
		if e, ok := s.ttable.lookup(b); ok && e.usable(depth, α, β) {
			return e.value(), nil
		}
	}
	v, err := s.minimax(ctx, b, isMax, depth, α, β)
	if err != nil {
		return v, err
	}
	if s.transpositionTableOptim {
		e := TableEntry{
			score: v.Score,
			ply:   uint16(v.Ply),
			depth: uint8(depth),
			flag:  TTExact,
		}
		if s.alphaBetaOptim {
			if v.Score <= α {
				e.flag = TTUpper
			} else if v.Score >= β {
				e.flag = TTLower
			}
		}
		s.ttable.store(b, e)
	}
	return v, nil
}

func (s *Solver) minimax(ctx context.Context, b bitboard.Board, isMax bool, depth int,
	α, β Score) (Value, error) {

	s.nodes++
	if s.nodes%pollInterval == 0 && ctx.Err() != nil {
		return Value{}, ctx.Err()
	}
	if s.nodeBudget > 0 && s.nodes > s.nodeBudget {
		return Value{}, ErrNodeBudgetExceeded
	}

	// A position is only reached by a move, so only the player who just
	// moved can have completed a line.
	if s.layout.HasWin(b.Opponent()) {
		if isMax {
			return Value{Score: NegInfinity}, nil
		}
		return Value{Score: Infinity}, nil
	}
	if s.layout.IsFull(b.Mask) {
		return Value{}, nil
	}
	if depth == 0 {
		return Value{Score: s.heuristic(b, isMax)}, nil
	}

	var best Value
	found := false
	cols := s.layout.Dims().Columns
	for col := 0; col < cols; col++ {
		if s.layout.IsColumnFull(b.Mask, col) {
			continue
		}
		v, err := s.child(ctx, s.layout.ApplyMove(b, col), !isMax, depth-1, α, β)
		if err != nil {
			return Value{}, err
		}
		if !found || better(v, best, isMax) {
			best = v
			found = true
		}
		if !s.alphaBetaOptim {
			continue
		}
		if isMax {
			α = max(α, best.Score)
		} else {
			β = min(β, best.Score)
		}
		if β <= α {
			break
		}
	}
	best.Ply++
	return best, nil
}
