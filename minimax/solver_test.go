package minimax

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/grid"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

var defaultLayout = bitboard.MustLayout(bitboard.DefaultDims())

func encode(sym grid.Symbol, cols ...string) bitboard.Board {
	return defaultLayout.Encode(grid.MustFromColumns(6, 7, 4, cols...), sym)
}

func TestEmptyBoardDepthOne(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)

	v, err := s.EvaluatePosition(context.Background(), bitboard.Board{}, 1)
	is.NoErr(err)
	is.True(!v.Score.IsWin())
	is.True(!v.Score.IsLoss())
	is.Equal(v.Ply, 1)

	values, err := s.EvaluateMoves(context.Background(), bitboard.Board{}, 1)
	is.NoErr(err)
	is.Equal(len(values), 7)
	for _, v := range values {
		is.True(v != nil)
		is.True(!v.Score.IsWin() && !v.Score.IsLoss())
	}
}

func TestDepthZeroIsHeuristic(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	b := encode('R', "RRR", "BBB")
	v, err := s.EvaluatePosition(context.Background(), b, 0)
	is.NoErr(err)
	is.Equal(v, Value{Score: -6})
}

func TestImmediateWin(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	b := encode('R', "RRR", "BB", "", "", "", "", "B")

	values, err := s.EvaluateMoves(context.Background(), b, 3)
	is.NoErr(err)
	is.Equal(*values[0], Value{Score: Infinity, Ply: 1})
	for col := 1; col < 7; col++ {
		is.True(!values[col].Score.IsWin())
	}

	v, err := s.EvaluatePosition(context.Background(), b, 3)
	is.NoErr(err)
	is.Equal(v, Value{Score: Infinity, Ply: 1})
}

func TestMustBlock(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	b := encode('R', "RR", "", "", "BBB", "", "", "R")

	values, err := s.EvaluateMoves(context.Background(), b, 4)
	is.NoErr(err)
	for col, v := range values {
		if col == 3 {
			is.True(!v.Score.IsLoss())
			continue
		}
		// Blue completes column 3 on its next move.
		is.Equal(*v, Value{Score: NegInfinity, Ply: 2})
	}
}

func TestFullBoardIsDraw(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	a, c := "RRBBRR", "BBRRBB"
	b := encode('R', a, a, a, c, a, a, a)
	is.True(defaultLayout.IsFull(b.Mask))

	v, err := s.EvaluatePosition(context.Background(), b, 5)
	is.NoErr(err)
	is.Equal(v, Value{})

	values, err := s.EvaluateMoves(context.Background(), b, 5)
	is.NoErr(err)
	for _, v := range values {
		is.True(v == nil)
	}
}

func TestFullColumnsAreNil(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	b := encode('R', "", "RBRBRB", "", "BRBRBR")
	values, err := s.EvaluateMoves(context.Background(), b, 2)
	is.NoErr(err)
	is.True(values[1] == nil)
	is.True(values[3] == nil)
	is.True(values[0] != nil)
}

func TestPruningDoesNotChangeScores(t *testing.T) {
	is := is.New(t)
	boards := []bitboard.Board{
		{},
		encode('R', "RB", "", "BRRB", "R", "", "", "B"),
		encode('B', "RR", "B", "BRB", "R", "R", "", "B"),
		encode('R', "RRR", "BB", "", "", "", "", "B"),
	}
	configs := []struct{ tt, ab bool }{
		{false, true}, {true, false}, {true, true},
	}
	for _, b := range boards {
		plain := NewSolver(defaultLayout)
		plain.SetAlphaBetaOptim(false)
		plain.SetTranspositionTableOptim(false)
		want, err := plain.EvaluateMoves(context.Background(), b, 4)
		is.NoErr(err)
		wantPos, err := plain.EvaluatePosition(context.Background(), b, 5)
		is.NoErr(err)
		plainNodes := plain.Nodes()

		for _, cfg := range configs {
			s := NewSolver(defaultLayout)
			s.SetTranspositionTableOptim(cfg.tt)
			s.SetAlphaBetaOptim(cfg.ab)
			got, err := s.EvaluateMoves(context.Background(), b, 4)
			is.NoErr(err)
			for col := range want {
				is.Equal(want[col] == nil, got[col] == nil)
				if want[col] != nil {
					is.Equal(got[col].Score, want[col].Score)
				}
			}
			gotPos, err := s.EvaluatePosition(context.Background(), b, 5)
			is.NoErr(err)
			is.Equal(gotPos.Score, wantPos.Score)
			is.True(s.Nodes() <= plainNodes)
		}
	}
}

// randomBoard plays up to maxMoves random moves from the empty board,
// stopping before any move that would complete a line.
func randomBoard(rng *frand.RNG, l *bitboard.Layout, maxMoves int) bitboard.Board {
	b := bitboard.Board{}
	n := rng.Intn(maxMoves + 1)
	for i := 0; i < n; i++ {
		moves := l.LegalMoves(b.Mask)
		if len(moves) == 0 {
			break
		}
		next := l.ApplyMove(b, moves[rng.Intn(len(moves))])
		if l.HasWin(next.Opponent()) {
			break
		}
		b = next
	}
	return b
}

func TestPruningAndCachingAgreeOnRandomBoards(t *testing.T) {
	is := is.New(t)
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	solvers := make([]*Solver, 4)
	for i := range solvers {
		solvers[i] = NewSolver(defaultLayout)
		solvers[i].SetTableSize(MinTableSizePowerOf2 + 6)
		solvers[i].SetTranspositionTableOptim(i&1 != 0)
		solvers[i].SetAlphaBetaOptim(i&2 != 0)
	}
	ctx := context.Background()
	for i := 0; i < 150; i++ {
		b := randomBoard(rng, defaultLayout, 20)
		depth := 1 + rng.Intn(5)

		want, err := solvers[0].EvaluateMoves(ctx, b, depth)
		is.NoErr(err)
		wantPos, err := solvers[0].EvaluatePosition(ctx, b, depth)
		is.NoErr(err)
		for _, s := range solvers[1:] {
			got, err := s.EvaluateMoves(ctx, b, depth)
			is.NoErr(err)
			for col := range want {
				is.Equal(want[col] == nil, got[col] == nil)
				if want[col] != nil {
					is.Equal(got[col].Score, want[col].Score)
				}
			}
			gotPos, err := s.EvaluatePosition(ctx, b, depth)
			is.NoErr(err)
			is.Equal(gotPos.Score, wantPos.Score)
		}
	}
}

// Boards with five to win exercise the long-run detector inside the search.
func TestPruningAgreesWithFiveToWin(t *testing.T) {
	is := is.New(t)
	l := bitboard.MustLayout(bitboard.Dims{Rows: 7, Columns: 8, WinLength: 5})
	rng := frand.NewCustom(make([]byte, 32), 1024, 12)
	plain := NewSolver(l)
	plain.SetAlphaBetaOptim(false)
	plain.SetTranspositionTableOptim(false)
	full := NewSolver(l)
	full.SetTableSize(MinTableSizePowerOf2 + 6)
	ctx := context.Background()
	for i := 0; i < 40; i++ {
		b := randomBoard(rng, l, 30)
		want, err := plain.EvaluateMoves(ctx, b, 3)
		is.NoErr(err)
		got, err := full.EvaluateMoves(ctx, b, 3)
		is.NoErr(err)
		for col := range want {
			is.Equal(want[col] == nil, got[col] == nil)
			if want[col] != nil {
				is.Equal(got[col].Score, want[col].Score)
			}
		}
	}
}

func TestHeuristicNeverReachesSentinels(t *testing.T) {
	is := is.New(t)
	is.True(Score(bitboard.MaxHeuristic) < Infinity)
	is.True(Score(-bitboard.MaxHeuristic) > NegInfinity)
	is.True(Infinity != NegInfinity)
	is.Equal(-NegInfinity, Infinity)
}

func TestBetterPrefersQuickWinsAndSlowLosses(t *testing.T) {
	is := is.New(t)
	is.True(better(Value{Infinity, 3}, Value{Infinity, 5}, true))
	is.True(!better(Value{Infinity, 5}, Value{Infinity, 3}, true))
	is.True(better(Value{NegInfinity, 6}, Value{NegInfinity, 2}, true))
	is.True(better(Value{10, 0}, Value{NegInfinity, 8}, true))
	is.True(!better(Value{10, 4}, Value{10, 0}, true))

	// The minimizer wants the maximizer's losses quickly.
	is.True(better(Value{NegInfinity, 2}, Value{NegInfinity, 6}, false))
	is.True(better(Value{Infinity, 6}, Value{Infinity, 2}, false))
	is.True(better(Value{-3, 0}, Value{5, 0}, false))
}

func TestNodeBudget(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	s.SetNodeBudget(100)
	_, err := s.EvaluateMoves(context.Background(), bitboard.Board{}, 8)
	is.True(errors.Is(err, ErrNodeBudgetExceeded))

	s.SetNodeBudget(0)
	_, err = s.EvaluateMoves(context.Background(), bitboard.Board{}, 2)
	is.NoErr(err)
}

func TestCancelledContext(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	s.SetTranspositionTableOptim(false)
	s.SetAlphaBetaOptim(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.EvaluatePosition(ctx, bitboard.Board{}, 10)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(s.Nodes(), uint64(pollInterval))
}

func TestNegativeDepth(t *testing.T) {
	is := is.New(t)
	s := NewSolver(defaultLayout)
	_, err := s.EvaluateMoves(context.Background(), bitboard.Board{}, -1)
	is.True(errors.Is(err, ErrNegativeDepth))
}

func TestOtherDimensions(t *testing.T) {
	is := is.New(t)
	l := bitboard.MustLayout(bitboard.Dims{Rows: 4, Columns: 5, WinLength: 3})
	s := NewSolver(l)
	g := grid.MustFromColumns(4, 5, 3, "RR", "B", "B")
	values, err := s.EvaluateMoves(context.Background(), l.Encode(g, 'R'), 2)
	is.NoErr(err)
	is.Equal(*values[0], Value{Score: Infinity, Ply: 1})
	// No heuristic table for this size, so quiet lines score 0.
	v, err := s.EvaluatePosition(context.Background(), bitboard.Board{}, 1)
	is.NoErr(err)
	is.Equal(v, Value{Ply: 1})
}
