package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
	"github.com/domino14/connectfour/gameanalysis"
	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/strategy"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	i, err := strconv.Atoi(v[0])
	if err != nil {
		return 0, fmt.Errorf("option %s: %w", key, err)
	}
	return i, nil
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	d := sc.config.Dims()
	var err error
	if d.Rows, err = cmd.options.IntDefault("rows", d.Rows); err != nil {
		return nil, err
	}
	if d.Columns, err = cmd.options.IntDefault("columns", d.Columns); err != nil {
		return nil, err
	}
	if d.WinLength, err = cmd.options.IntDefault("win", d.WinLength); err != nil {
		return nil, err
	}
	rules, err := sc.config.GameRules(d)
	if err != nil {
		return nil, err
	}
	if sc.game != nil && sc.game.Playing() == game.PlayStatePlaying {
		log.Info().Int("turn", sc.game.Turn()).Msg("abandoning-game")
	}
	sc.game = game.NewGame(rules, &consoleListener{out: sc.out, palette: sc.palette})
	if !rules.Layout().Weighted() {
		sc.showMessage("Note: position scores are only available on a 6x7 board with 4 to win; " +
			"computers will rely on search alone.")
	}
	return msg(fmt.Sprintf("New %dx%d game, %d in a row to win. Add two players.",
		d.Rows, d.Columns, d.WinLength)), nil
}

func (sc *ShellController) addPlayer(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: add human|computer <name> [-symbol X] [-difficulty level]")
	}
	kind, name := strings.ToLower(cmd.args[0]), cmd.args[1]
	sym := grid.Empty
	if s := cmd.options.String("symbol"); s != "" {
		var err error
		if sym, err = grid.ParseSymbol(s); err != nil {
			return nil, err
		}
	}
	switch kind {
	case "human":
		h, err := sc.game.AddHuman(name, sym, &consoleMoveSource{l: sc.l, out: sc.out, palette: sc.palette})
		if err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("Added %s (%s)", h.Name(), sc.palette.Symbol(h.Symbol()))), nil
	case "computer", "cpu":
		d, err := sc.config.DefaultDifficulty()
		if err != nil {
			return nil, err
		}
		if s := cmd.options.String("difficulty"); s != "" {
			if d, err = strategy.ParseDifficulty(s); err != nil {
				return nil, err
			}
		}
		c, err := sc.game.AddComputer(name, sym, d)
		if err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("Added %s (%s), difficulty %s", c.Name(),
			sc.palette.Symbol(c.Symbol()), c.Difficulty().DisplayName())), nil
	}
	return nil, fmt.Errorf("unknown player type %q; use human or computer", kind)
}

func (sc *ShellController) play(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	err := sc.game.Play(ctx)
	if errors.Is(err, errAbandoned) || errors.Is(err, context.Canceled) {
		return msg(fmt.Sprintf("Game paused after turn %d. Use play to resume or new to start over.",
			sc.game.Turn())), nil
	}
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Game over after %d turns. Use show, analyze or analyze-all to review it.",
		sc.game.Turn())), nil
}

func (sc *ShellController) turnArg(cmd *shellcmd) (int, error) {
	if len(cmd.args) == 0 {
		return sc.game.Turn(), nil
	}
	turn, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, fmt.Errorf("turn must be a number: %w", err)
	}
	return turn, nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	turn, err := sc.turnArg(cmd)
	if err != nil {
		return nil, err
	}
	t, err := sc.game.History().Turn(turn)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if p := sc.game.PlayerWhoMoved(turn); p != nil {
		fmt.Fprintf(&sb, "Turn %d: %s (%s) played column %d\n\n", turn, p.Name(),
			sc.palette.Symbol(p.Symbol()), t.Column+1)
	} else {
		fmt.Fprintf(&sb, "Turn %d\n\n", turn)
	}
	cell, _ := t.Cell()
	if t.HasMove() {
		sb.WriteString(sc.palette.Draw(t.Grid, cell))
	} else {
		sb.WriteString(sc.palette.Draw(t.Grid))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) analyzeTurn(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	turn, err := sc.turnArg(cmd)
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", sc.config.GetInt(config.ConfigAnalysisDepth))
	if err != nil {
		return nil, err
	}
	scores, err := sc.game.EvaluateMove(ctx, turn, depth)
	if err != nil {
		return nil, err
	}
	p := sc.game.PlayerToMove(turn)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Moves for %s (%s) after turn %d, depth %d:\n", p.Name(),
		sc.palette.Symbol(p.Symbol()), turn, depth)
	played := -1
	if next, err := sc.game.History().Turn(turn + 1); err == nil {
		played = next.Column
	}
	for i, s := range scores {
		fmt.Fprintf(&sb, "Move %d: %s", i+1, gameanalysis.ValueSymbol(s))
		if i == played {
			sb.WriteString("  (played)")
		}
		sb.WriteString("\n")
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) analyzeAll(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	cfg := sc.config.AnalysisConfig()
	var err error
	if cfg.Depth, err = cmd.options.IntDefault("depth", cfg.Depth); err != nil {
		return nil, err
	}
	if cfg.Threads, err = cmd.options.IntDefault("threads", cfg.Threads); err != nil {
		return nil, err
	}
	result, err := gameanalysis.New(cfg).AnalyzeGame(ctx, sc.game)
	if err != nil {
		return nil, err
	}
	out, err := result.ToYAML()
	if err != nil {
		return nil, err
	}
	return msg(string(out)), nil
}

func (sc *ShellController) settings(cmd *shellcmd) (*Response, error) {
	out, err := yaml.Marshal(sc.config.SanitizedSettings())
	if err != nil {
		return nil, err
	}
	return msg(string(out)), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	key, value := cmd.args[0], cmd.args[1]
	switch key {
	case config.ConfigDebug:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, on)
		if on {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	case config.ConfigColorOutput:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, on)
		sc.palette.enabled = on
	case config.ConfigDefaultDifficulty:
		d, err := strategy.ParseDifficulty(value)
		if err != nil {
			return nil, err
		}
		sc.config.Set(key, d.String())
	case config.ConfigRows, config.ConfigColumns, config.ConfigWinLength:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		d := sc.config.Dims()
		switch key {
		case config.ConfigRows:
			d.Rows = i
		case config.ConfigColumns:
			d.Columns = i
		default:
			d.WinLength = i
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		sc.config.Set(key, i)
	case config.ConfigAnalysisDepth, config.ConfigAnalysisThreads, config.ConfigSearchNodeBudget,
		config.ConfigTTableSizePower:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			return nil, fmt.Errorf("%s cannot be negative", key)
		}
		sc.config.Set(key, i)
	default:
		sc.config.Set(key, value)
	}
	return msg(fmt.Sprintf("set %s to %v (applies to new games)", key, sc.config.Get(key))), nil
}

// dimsSummary is used by help to show the board new games get.
func dimsSummary(d bitboard.Dims) string {
	return fmt.Sprintf("%dx%d, %d to win", d.Rows, d.Columns, d.WinLength)
}
