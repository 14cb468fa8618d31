// Package gameanalysis replays a finished game and scores every move
// against the alternatives that were available.
package gameanalysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/game"
	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/stats"
)

// AnalysisConfig holds configuration for game analysis
type AnalysisConfig struct {
	// Plies searched past each candidate move
	Depth int
	// Turns analyzed at once, each with its own search. 0 means one per CPU.
	Threads int
}

// DefaultAnalysisConfig returns sensible defaults
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Depth:   game.DefaultAnalysisDepth,
		Threads: 0,
	}
}

// Analyzer analyzes played games
type Analyzer struct {
	analysisCfg *AnalysisConfig
}

// New creates a new Analyzer
func New(analysisCfg *AnalysisConfig) *Analyzer {
	if analysisCfg == nil {
		analysisCfg = DefaultAnalysisConfig()
	}
	return &Analyzer{analysisCfg: analysisCfg}
}

func (a *Analyzer) threads() int {
	if a.analysisCfg.Threads > 0 {
		return a.analysisCfg.Threads
	}
	return runtime.NumCPU()
}

// AnalyzeTurn scores the move made on the given turn (1 or later) against
// every column that was open before it.
func (a *Analyzer) AnalyzeTurn(ctx context.Context, g *game.Game, turn int) (*TurnAnalysis, error) {
	if turn < 1 {
		return nil, fmt.Errorf("%w: turn 0 has no move", game.ErrNoSuchTurn)
	}
	played, err := g.History().Turn(turn)
	if err != nil {
		return nil, err
	}
	before, err := g.History().Turn(turn - 1)
	if err != nil {
		return nil, err
	}
	if len(g.Players()) != game.NumPlayers {
		return nil, game.ErrNotEnoughPlayers
	}
	mover := g.PlayerToMove(turn - 1)

	s := g.Rules().NewStrategy(nil)
	scores, err := s.EvaluateMove(ctx, before.Grid, mover.Symbol(), a.analysisCfg.Depth)
	if err != nil {
		return nil, err
	}
	if scores[played.Column] == nil {
		return nil, errors.New("played column was full before the move")
	}

	ta := &TurnAnalysis{
		TurnNumber:   turn,
		PlayerIndex:  (turn - 1) % game.NumPlayers,
		PlayerName:   mover.Name(),
		Symbol:       mover.Symbol().String(),
		PlayedColumn: played.Column,
		Scores:       scores,
		ValueSymbols: lo.Map(scores, func(sc *minimax.Score, _ int) string { return ValueSymbol(sc) }),
		PlayedScore:  *scores[played.Column],
		Nodes:        s.Solver().Nodes(),
	}
	ta.BestScore = *lo.MaxBy(lo.Compact(scores), func(x, y *minimax.Score) bool { return *x > *y })
	ta.OptimalColumns = lo.FilterMap(scores, func(sc *minimax.Score, col int) (int, bool) {
		return col, sc != nil && *sc == ta.BestScore
	})
	ta.PlayedValue = ValueSymbol(&ta.PlayedScore)
	ta.BestValue = ValueSymbol(&ta.BestScore)

	switch {
	case ta.PlayedScore == ta.BestScore:
		ta.WasOptimal = true
	case ta.BestScore.IsWin():
		ta.MistakeCategory = MissedWin
	case ta.PlayedScore.IsLoss():
		ta.MistakeCategory = Blunder
	default:
		ta.MistakeCategory = Inaccuracy
		ta.ScoreLoss = float64(ta.BestScore - ta.PlayedScore)
	}
	log.Debug().Int("turn", turn).Str("player", ta.PlayerName).
		Int("played", ta.PlayedColumn).Ints("optimal", ta.OptimalColumns).
		Uint64("nodes", ta.Nodes).Msg("turn-analyzed")
	return ta, nil
}

// AnalyzeGame analyzes every move played so far. Turns are searched in
// parallel; each search has its own transposition table.
func (a *Analyzer) AnalyzeGame(ctx context.Context, g *game.Game) (*GameAnalysisResult, error) {
	last := g.History().Last()
	if last < 1 {
		return nil, errors.New("no moves to analyze")
	}
	if len(g.Players()) != game.NumPlayers {
		return nil, game.ErrNotEnoughPlayers
	}
	result := &GameAnalysisResult{
		Depth: a.analysisCfg.Depth,
		Turns: make([]*TurnAnalysis, last),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(a.threads())
	for turn := 1; turn <= last; turn++ {
		turn := turn
		eg.Go(func() error {
			ta, err := a.AnalyzeTurn(ctx, g, turn)
			if err != nil {
				return fmt.Errorf("turn %d: %w", turn, err)
			}
			// Each goroutine owns its own slot.
			result.Turns[turn-1] = ta
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	nodes := &stats.Running{}
	for _, ta := range result.Turns {
		nodes.Add(float64(ta.Nodes))
	}
	result.Nodes = nodes.Summary()
	for i, p := range g.Players() {
		result.PlayerSummaries[i] = summarize(p.Name(), lo.Filter(result.Turns,
			func(ta *TurnAnalysis, _ int) bool { return ta.PlayerIndex == i }))
	}
	log.Info().Int("turns", last).Int("depth", result.Depth).
		Float64("mean-nodes", result.Nodes.Mean).Msg("game-analyzed")
	return result, nil
}

func summarize(name string, turns []*TurnAnalysis) *PlayerSummary {
	loss := &stats.Running{}
	for _, ta := range turns {
		if ta.MistakeCategory == Inaccuracy {
			loss.Add(ta.ScoreLoss)
		}
	}
	category := func(c MistakeCategory) int {
		return lo.CountBy(turns, func(ta *TurnAnalysis) bool { return ta.MistakeCategory == c })
	}
	return &PlayerSummary{
		PlayerName:   name,
		TurnsPlayed:  len(turns),
		OptimalMoves: lo.CountBy(turns, func(ta *TurnAnalysis) bool { return ta.WasOptimal }),
		Inaccuracies: category(Inaccuracy),
		MissedWins:   category(MissedWin),
		Blunders:     category(Blunder),
		ScoreLoss:    loss.Summary(),
	}
}
