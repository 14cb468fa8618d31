package game

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
	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/player"
	"github.com/domino14/connectfour/strategy"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

type scriptedSource struct {
	moves   []int
	illegal []error
}

func (s *scriptedSource) RequestMove(ctx context.Context, p player.Player, g *grid.Grid) (int, error) {
	if len(s.moves) == 0 {
		return 0, errors.New("out of moves")
	}
	m := s.moves[0]
	s.moves = s.moves[1:]
	return m, nil
}

func (s *scriptedSource) IllegalMove(p player.Player, err error) {
	s.illegal = append(s.illegal, err)
}

type recorder struct {
	started  int
	thinking int
	moves    []Turn
	winner   player.Player
	drawn    bool
}

func (r *recorder) GameStarted(g *Game)                { r.started++ }
func (r *recorder) ComputerThinking(p player.Player)   { r.thinking++ }
func (r *recorder) MovePlayed(p player.Player, t Turn) { r.moves = append(r.moves, t) }
func (r *recorder) GameWon(p player.Player)            { r.winner = p }
func (r *recorder) GameDrawn()                         { r.drawn = true }

// wildComputer always plays the same column.
type wildComputer struct {
	column int
}

func (w *wildComputer) Name() string            { return "wild" }
func (w *wildComputer) Symbol() grid.Symbol     { return 'Y' }
func (w *wildComputer) IsComputer() bool        { return true }
func (w *wildComputer) RegisterError(err error) {}

func (w *wildComputer) GetMove(ctx context.Context, g *grid.Grid) (int, error) {
	return w.column, nil
}

func seeded() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func TestHumanGameVerticalWin(t *testing.T) {
	is := is.New(t)
	rec := &recorder{}
	g := NewGame(DefaultGameRules(), rec)
	red := &scriptedSource{moves: []int{0, 0, 0, 0}}
	blue := &scriptedSource{moves: []int{1, 1, 1}}
	_, err := g.AddHuman("Harry", 'R', red)
	is.NoErr(err)
	_, err = g.AddHuman("Kim", 'B', blue)
	is.NoErr(err)

	is.NoErr(g.Play(context.Background()))
	is.Equal(g.Playing(), PlayStateWon)
	is.Equal(g.Winner().Name(), "Harry")
	is.Equal(rec.winner.Name(), "Harry")
	is.Equal(rec.started, 1)
	is.Equal(len(rec.moves), 7)
	is.Equal(g.Turn(), 7)
	is.Equal(g.History().Moves(), []int{0, 1, 0, 1, 0, 1, 0})

	sym, won := g.Grid().CheckWin()
	is.True(won)
	is.Equal(sym, grid.Symbol('R'))

	is.True(errors.Is(g.PlayTurn(context.Background()), ErrGameOver))
}

func TestIllegalHumanMoveReprompts(t *testing.T) {
	is := is.New(t)
	rules, err := NewGameRules(bitboard.Dims{Rows: 2, Columns: 3, WinLength: 2}, strategy.DefaultProfiles(),
		DefaultSearchLimits())
	is.NoErr(err)
	g := NewGame(rules, nil)
	red := &scriptedSource{moves: []int{0, 9, 0, 2}}
	blue := &scriptedSource{moves: []int{0, 1}}
	_, err = g.AddHuman("a", 'R', red)
	is.NoErr(err)
	_, err = g.AddHuman("b", 'B', blue)
	is.NoErr(err)

	// Blue fills column 0, so red's 9 and 0 are both rejected before 2.
	is.NoErr(g.PlayTurn(context.Background()))
	is.NoErr(g.PlayTurn(context.Background()))
	is.NoErr(g.PlayTurn(context.Background()))
	is.Equal(len(red.illegal), 2)
	is.True(errors.Is(red.illegal[0], ErrIllegalMove))
	is.True(errors.Is(red.illegal[0], grid.ErrColumnOutOfRange))
	is.True(errors.Is(red.illegal[1], grid.ErrColumnFull))
	is.Equal(g.History().Moves(), []int{0, 0, 2})

	t3, err := g.History().Turn(3)
	is.NoErr(err)
	is.Equal(t3.Column, 2)
	is.Equal(t3.Row, 0)
	is.Equal(t3.Grid.At(0, 2), grid.Symbol('R'))
}

func TestIllegalComputerMoveIsFatal(t *testing.T) {
	is := is.New(t)
	g := NewGame(DefaultGameRules(), nil)
	_, err := g.AddHuman("Harry", 'R', &scriptedSource{moves: []int{3}})
	is.NoErr(err)
	is.NoErr(g.AddPlayer(&wildComputer{column: 7}))

	is.NoErr(g.PlayTurn(context.Background()))
	err = g.PlayTurn(context.Background())
	is.True(errors.Is(err, ErrIllegalComputerMove))
	is.True(errors.Is(err, grid.ErrColumnOutOfRange))
}

func TestAddPlayerValidation(t *testing.T) {
	is := is.New(t)
	g := NewGame(DefaultGameRules(), nil)
	src := &scriptedSource{}

	is.True(errors.Is(g.PlayTurn(context.Background()), ErrNotEnoughPlayers))

	h, err := g.AddHuman("Harry", grid.Empty, src)
	is.NoErr(err)
	is.Equal(h.Symbol(), grid.Symbol('R'))
	is.Equal(g.NextSymbol(), grid.Symbol('B'))

	_, err = g.AddHuman("harry", 'G', src)
	is.True(errors.Is(err, ErrNameTaken))
	_, err = g.AddHuman("Kim", 'R', src)
	is.True(errors.Is(err, ErrSymbolTaken))

	c, err := g.AddComputer("Hal", grid.Empty, strategy.Easy)
	is.NoErr(err)
	is.Equal(c.Symbol(), grid.Symbol('B'))
	is.Equal(c.Profile(), strategy.DefaultProfiles().Get(strategy.Easy))

	_, err = g.AddHuman("Third", 'G', src)
	is.True(errors.Is(err, ErrTooManyPlayers))
}

func TestComputerGameFinishes(t *testing.T) {
	is := is.New(t)
	profiles, err := strategy.DefaultProfiles().WithOverrides(map[string]strategy.Profile{
		"hard":    {Depth: 2, SelectProbability: 0.9},
		"perfect": {Depth: 3, SelectProbability: 1},
	})
	is.NoErr(err)
	rules, err := NewGameRules(bitboard.DefaultDims(), profiles, DefaultSearchLimits())
	is.NoErr(err)
	rec := &recorder{}
	g := NewGame(rules, rec)
	g.SetRandomizer(seeded())
	_, err = g.AddComputer("Hal 9000", 'R', strategy.Hard)
	is.NoErr(err)
	_, err = g.AddComputer("C3PO", 'B', strategy.Perfect)
	is.NoErr(err)

	is.NoErr(g.Play(context.Background()))
	is.True(g.Playing() == PlayStateWon || g.Playing() == PlayStateDrawn)
	is.Equal(rec.thinking, g.Turn())
	is.Equal(g.History().Len(), g.Turn()+1)
	if g.Playing() == PlayStateWon {
		sym, won := g.Grid().CheckWin()
		is.True(won)
		is.Equal(sym, g.Winner().Symbol())
		is.Equal(g.PlayerWhoMoved(g.Turn()), g.Winner())
	} else {
		is.True(rec.drawn)
	}
}

func TestComputerBlocksHuman(t *testing.T) {
	is := is.New(t)
	profiles, err := strategy.DefaultProfiles().WithOverrides(map[string]strategy.Profile{
		"perfect": {Depth: 4, SelectProbability: 1},
	})
	is.NoErr(err)
	rules, err := NewGameRules(bitboard.DefaultDims(), profiles, DefaultSearchLimits())
	is.NoErr(err)
	g := NewGame(rules, nil)
	g.SetRandomizer(seeded())
	_, err = g.AddHuman("Raiden", 'R', &scriptedSource{moves: []int{2, 2, 2}})
	is.NoErr(err)
	_, err = g.AddComputer("Arsenal Gear", 'B', strategy.Perfect)
	is.NoErr(err)

	// Red stacks column 2 and must never be left with an open three there.
	for i := 0; i < 6; i++ {
		is.NoErr(g.PlayTurn(context.Background()))
		h := g.Grid().ColumnHeight(2)
		if i%2 == 1 && h >= 3 && h < 6 {
			threat := true
			for row := h - 3; row < h; row++ {
				threat = threat && g.Grid().At(row, 2) == 'R'
			}
			is.True(!threat)
		}
	}
	is.Equal(g.Playing(), PlayStatePlaying)
}

func TestEvaluateMove(t *testing.T) {
	is := is.New(t)
	g := NewGame(DefaultGameRules(), nil)
	_, err := g.AddHuman("Harry", 'R', &scriptedSource{moves: []int{0, 0, 0}})
	is.NoErr(err)
	_, err = g.AddHuman("Kim", 'B', &scriptedSource{moves: []int{6, 6, 5}})
	is.NoErr(err)
	for i := 0; i < 6; i++ {
		is.NoErr(g.PlayTurn(context.Background()))
	}

	// After turn 6 red, with three in column 0, is to move.
	is.Equal(g.PlayerToMove(6).Name(), "Harry")
	scores, err := g.EvaluateMove(context.Background(), 6, 2)
	is.NoErr(err)
	is.Equal(*scores[0], minimax.Infinity)

	// After turn 5 blue must block column 0.
	is.Equal(g.PlayerToMove(5).Name(), "Kim")
	scores, err = g.EvaluateMove(context.Background(), 5, 2)
	is.NoErr(err)
	is.True(!scores[0].IsLoss())
	is.Equal(*scores[3], minimax.NegInfinity)

	_, err = g.EvaluateMove(context.Background(), 7, 2)
	is.True(errors.Is(err, ErrNoSuchTurn))

	t0, err := g.History().Turn(0)
	is.NoErr(err)
	is.True(!t0.HasMove())
	is.Equal(t0.Grid.NumPieces(), 0)
	is.True(g.PlayerWhoMoved(0) == nil)
}
