// Package game runs a two-player connection game: turn order, move
// validation, win and draw detection, and the turn history used for replay
// and analysis.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/player"
	"github.com/domino14/connectfour/strategy"
)

const (
	NumPlayers = 2
	// DefaultAnalysisDepth is how far EvaluateMove looks unless told
	// otherwise.
	DefaultAnalysisDepth = 11
)

// DefaultSymbols are handed out, in order, to players added without one.
var DefaultSymbols = []grid.Symbol{'R', 'B', 'G', 'Y'}

var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrIllegalComputerMove = errors.New("computer player made an illegal move")
	ErrTooManyPlayers      = errors.New("game already has two players")
	ErrNotEnoughPlayers    = errors.New("game needs two players")
	ErrSymbolTaken         = errors.New("symbol already taken")
	ErrNameTaken           = errors.New("name already taken")
	ErrGameOver            = errors.New("game is over")
	ErrGameInProgress      = errors.New("game has started")
)

type PlayState int

const (
	PlayStateWaiting PlayState = iota
	PlayStatePlaying
	PlayStateWon
	PlayStateDrawn
)

func (p PlayState) String() string {
	switch p {
	case PlayStateWaiting:
		return "waiting"
	case PlayStatePlaying:
		return "playing"
	case PlayStateWon:
		return "won"
	case PlayStateDrawn:
		return "drawn"
	}
	return "unknown"
}

// Listener is told about everything a display needs to show. Calls happen
// on the goroutine running Play.
type Listener interface {
	GameStarted(g *Game)
	ComputerThinking(p player.Player)
	MovePlayed(p player.Player, t Turn)
	GameWon(p player.Player)
	GameDrawn()
}

type Game struct {
	rules    *GameRules
	grid     *grid.Grid
	players  []player.Player
	history  *History
	listener Listener
	rng      strategy.Randomizer

	onturn int
	state  PlayState
	winner player.Player
}

// NewGame creates a game with no players. A nil listener is allowed.
func NewGame(rules *GameRules, listener Listener) *Game {
	d := rules.Dims()
	g := grid.New(d.Rows, d.Columns, d.WinLength)
	return &Game{
		rules:    rules,
		grid:     g,
		history:  newHistory(g),
		listener: listener,
	}
}

// SetRandomizer fixes the randomness of computers added afterwards.
func (g *Game) SetRandomizer(rng strategy.Randomizer) {
	g.rng = rng
}

// NextSymbol is the first default symbol nobody has taken.
func (g *Game) NextSymbol() grid.Symbol {
	for _, s := range DefaultSymbols {
		if !g.symbolTaken(s) {
			return s
		}
	}
	return grid.Empty
}

func (g *Game) symbolTaken(s grid.Symbol) bool {
	for _, p := range g.players {
		if p.Symbol() == s {
			return true
		}
	}
	return false
}

func (g *Game) checkNewPlayer(name string, sym grid.Symbol) error {
	if g.state != PlayStateWaiting {
		return ErrGameInProgress
	}
	if len(g.players) >= NumPlayers {
		return ErrTooManyPlayers
	}
	if sym == grid.Empty {
		return fmt.Errorf("%w: no symbols left", ErrSymbolTaken)
	}
	if g.symbolTaken(sym) {
		return fmt.Errorf("%w: %v", ErrSymbolTaken, sym)
	}
	for _, p := range g.players {
		if strings.EqualFold(p.Name(), name) {
			return fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
	}
	return nil
}

// AddPlayer adds p. Once both players are in, computers learn who they
// are playing against.
func (g *Game) AddPlayer(p player.Player) error {
	if err := g.checkNewPlayer(p.Name(), p.Symbol()); err != nil {
		return err
	}
	g.players = append(g.players, p)
	if len(g.players) == NumPlayers {
		for i, pl := range g.players {
			if c, ok := pl.(*player.Computer); ok {
				c.SetOpponent(g.players[1-i].Symbol())
			}
		}
	}
	return nil
}

// AddHuman adds a human player. An empty symbol picks NextSymbol.
func (g *Game) AddHuman(name string, sym grid.Symbol, src player.MoveSource) (*player.Human, error) {
	if sym == grid.Empty {
		sym = g.NextSymbol()
	}
	h := player.NewHuman(name, sym, src)
	if err := g.AddPlayer(h); err != nil {
		return nil, err
	}
	return h, nil
}

// AddComputer adds a computer player of the given difficulty. An empty
// symbol picks NextSymbol.
func (g *Game) AddComputer(name string, sym grid.Symbol, d strategy.Difficulty) (*player.Computer, error) {
	if sym == grid.Empty {
		sym = g.NextSymbol()
	}
	if err := g.checkNewPlayer(name, sym); err != nil {
		return nil, err
	}
	c := player.NewComputer(name, sym, d, g.rules.Profiles().Get(d), g.rules.NewStrategy(g.rng))
	if err := g.AddPlayer(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Play runs turns until someone wins or the grid fills.
func (g *Game) Play(ctx context.Context) error {
	for g.state != PlayStateWon && g.state != PlayStateDrawn {
		if err := g.PlayTurn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) start() error {
	if len(g.players) != NumPlayers {
		return fmt.Errorf("%w: have %d", ErrNotEnoughPlayers, len(g.players))
	}
	g.state = PlayStatePlaying
	log.Debug().Str("first", g.players[0].Name()).Str("second", g.players[1].Name()).
		Msg("game-started")
	if g.listener != nil {
		g.listener.GameStarted(g)
	}
	return nil
}

// PlayTurn gets one legal move from the player on turn and applies it.
// A human whose move is rejected is told why and asked again. A computer
// whose move is rejected ends the game with ErrIllegalComputerMove.
func (g *Game) PlayTurn(ctx context.Context) error {
	switch g.state {
	case PlayStateWaiting:
		if err := g.start(); err != nil {
			return err
		}
	case PlayStateWon, PlayStateDrawn:
		return ErrGameOver
	}
	p := g.players[g.onturn]
	var res grid.DropResult
	var column int
	for {
		if p.IsComputer() && g.listener != nil {
			g.listener.ComputerThinking(p)
		}
		var err error
		column, err = p.GetMove(ctx, g.grid.Copy())
		if err != nil {
			return err
		}
		res = g.grid.AddPiece(column, p.Symbol())
		if err := res.Err(); err != nil {
			if p.IsComputer() {
				return fmt.Errorf("%w: %s chose column %d: %w", ErrIllegalComputerMove, p.Name(), column, err)
			}
			log.Debug().Str("player", p.Name()).Int("column", column).Err(err).Msg("illegal-move")
			p.RegisterError(fmt.Errorf("%w: %w", ErrIllegalMove, err))
			continue
		}
		break
	}

	t := g.history.add(g.grid, column, res.Row)
	log.Debug().Int("turn", t.Number).Str("player", p.Name()).Int("column", column).
		Int("row", res.Row).Msg("move-played")
	if g.listener != nil {
		g.listener.MovePlayed(p, t)
	}

	if _, won := g.grid.CheckWin(); won {
		g.state = PlayStateWon
		g.winner = p
		if g.listener != nil {
			g.listener.GameWon(p)
		}
		return nil
	}
	if g.grid.Full() {
		g.state = PlayStateDrawn
		if g.listener != nil {
			g.listener.GameDrawn()
		}
		return nil
	}
	g.onturn = (g.onturn + 1) % NumPlayers
	return nil
}

func (g *Game) Rules() *GameRules        { return g.rules }
func (g *Game) Grid() *grid.Grid         { return g.grid }
func (g *Game) History() *History        { return g.history }
func (g *Game) Players() []player.Player { return g.players }
func (g *Game) Playing() PlayState       { return g.state }
func (g *Game) Winner() player.Player    { return g.winner }

func (g *Game) PlayerOnTurn() player.Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.onturn]
}

// Turn is the number of moves played so far.
func (g *Game) Turn() int {
	return g.history.Last()
}

// PlayerToMove is the player whose move followed the given turn.
func (g *Game) PlayerToMove(turn int) player.Player {
	return g.players[turn%NumPlayers]
}

// PlayerWhoMoved is the player who made the given turn's move, nil for
// turn 0.
func (g *Game) PlayerWhoMoved(turn int) player.Player {
	if turn <= 0 {
		return nil
	}
	return g.players[(turn-1)%NumPlayers]
}

// EvaluateMove scores each column that was open to the player to move
// after the given turn, from that player's point of view. Full columns are
// nil.
func (g *Game) EvaluateMove(ctx context.Context, turn, depth int) ([]*minimax.Score, error) {
	t, err := g.history.Turn(turn)
	if err != nil {
		return nil, err
	}
	if len(g.players) != NumPlayers {
		return nil, ErrNotEnoughPlayers
	}
	s := g.rules.NewStrategy(nil)
	return s.EvaluateMove(ctx, t.Grid, g.PlayerToMove(turn).Symbol(), depth)
}
