package gameanalysis

import (
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/stats"
)

// MistakeCategory classifies a move that was not among the best.
type MistakeCategory string

const (
	// NoMistake means the move was one of the best available.
	NoMistake MistakeCategory = ""
	// Inaccuracy is a worse move that neither throws away a forced win
	// nor walks into a forced loss.
	Inaccuracy MistakeCategory = "Inaccuracy"
	// MissedWin means a forced win was available and not taken.
	MissedWin MistakeCategory = "MissedWin"
	// Blunder means the move allows a forced loss that could have been
	// avoided.
	Blunder MistakeCategory = "Blunder"
)

// ValueSymbol renders a move score for the console: "++" forced win, "+"
// better for the mover, "=" even, "-" worse, "--" forced loss and "!" for a
// column that could not be played.
func ValueSymbol(s *minimax.Score) string {
	switch {
	case s == nil:
		return "!"
	case s.IsWin():
		return "++"
	case s.IsLoss():
		return "--"
	case *s > 0:
		return "+"
	case *s < 0:
		return "-"
	}
	return "="
}

// TurnAnalysis contains the analysis of the move made on one turn.
type TurnAnalysis struct {
	TurnNumber  int    `yaml:"turn"`
	PlayerIndex int    `yaml:"player-index"`
	PlayerName  string `yaml:"player"`
	Symbol      string `yaml:"symbol"`

	// The column that was actually played
	PlayedColumn int `yaml:"played-column"`
	// Every column that scored as well as the best one
	OptimalColumns []int `yaml:"optimal-columns"`

	// Score of every column before the move, nil for full ones
	Scores       []*minimax.Score `yaml:"-"`
	ValueSymbols []string         `yaml:"values"`
	PlayedScore  minimax.Score    `yaml:"-"`
	BestScore    minimax.Score    `yaml:"-"`
	PlayedValue  string           `yaml:"played-value"`
	BestValue    string           `yaml:"best-value"`

	WasOptimal      bool            `yaml:"optimal"`
	MistakeCategory MistakeCategory `yaml:"mistake,omitempty"`
	// ScoreLoss is BestScore - PlayedScore when both are heuristic values.
	ScoreLoss float64 `yaml:"score-loss,omitempty"`

	// Search effort
	Nodes uint64 `yaml:"nodes"`
}

// PlayerSummary contains aggregate statistics for a player across the game.
type PlayerSummary struct {
	PlayerName   string `yaml:"player"`
	TurnsPlayed  int    `yaml:"turns-played"`
	OptimalMoves int    `yaml:"optimal-moves"`

	// Mistake breakdown
	Inaccuracies int `yaml:"inaccuracies"`
	MissedWins   int `yaml:"missed-wins"`
	Blunders     int `yaml:"blunders"`

	// Heuristic score lost on inaccuracies
	ScoreLoss stats.Summary `yaml:"score-loss"`
}

// GameAnalysisResult contains the complete analysis results for a game.
type GameAnalysisResult struct {
	Depth           int               `yaml:"depth"`
	Turns           []*TurnAnalysis   `yaml:"turns"`
	PlayerSummaries [2]*PlayerSummary `yaml:"players"`
	Nodes           stats.Summary     `yaml:"nodes-per-turn"`
}

// ToYAML renders the result for display.
func (r *GameAnalysisResult) ToYAML() ([]byte, error) {
	return yaml.Marshal(r)
}
