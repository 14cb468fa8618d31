// Package shell is the interactive console: set up a game, play it, then
// look back over it.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/game"
)

const prompt = "\033[31mconnectfour>\033[0m "

var (
	errNoData            = errors.New("no data in line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game; use the new command first")
	errExit              = errors.New("exit")
)

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

type ShellController struct {
	l      lineReader
	closer io.Closer
	out    io.Writer

	config *config.Config

	game    *game.Game
	palette *Palette

	// cancels the command being run, if any
	cancelPlay context.CancelFunc
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     "/tmp/connectfour_readline.tmp",
		AutoComplete:    completer(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newShellController(cfg, l, l.Stderr())
	sc.closer = l
	return sc
}

func newShellController(cfg *config.Config, l lineReader, out io.Writer) *ShellController {
	return &ShellController{
		l:       l,
		out:     out,
		config:  cfg,
		palette: NewPalette(cfg.GetBool(config.ConfigColorOutput)),
	}
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") && len(fields[idx]) > 1 {
			if _, err := strconv.Atoi(fields[idx]); err == nil {
				// a negative number is an argument
				args = append(args, fields[idx])
				continue
			}
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := strings.TrimLeft(fields[idx], "-")
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "quit":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "add":
		return sc.addPlayer(cmd)
	case "play":
		return sc.play(ctx, cmd)
	case "show":
		return sc.show(cmd)
	case "analyze":
		return sc.analyzeTurn(ctx, cmd)
	case "analyze-all":
		return sc.analyzeAll(ctx, cmd)
	case "settings":
		return sc.settings(cmd)
	case "set":
		return sc.set(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("unknown command %q; try help", cmd.cmd)
	}
}

// Execute runs a single command line, e.g. from the program arguments.
func (sc *ShellController) Execute(ctx context.Context, line string) {
	resp, err := sc.handle(ctx, line)
	if err != nil {
		if !errors.Is(err, errExit) {
			sc.showError(err)
		}
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

// Loop reads commands until exit, end of input or an interrupt on an empty
// line, then sends SIGINT on sig.
func (sc *ShellController) Loop(sig chan os.Signal) {
	if sc.closer != nil {
		defer sc.closer.Close()
	}
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ctx, cancel := context.WithCancel(context.Background())
		sc.cancelPlay = cancel
		resp, err := sc.handle(ctx, line)
		cancel()
		sc.cancelPlay = nil
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msg("exiting-readline-loop")
	sig <- syscall.SIGINT
}

// Cleanup stops anything still running.
func (sc *ShellController) Cleanup() {
	if sc.cancelPlay != nil {
		sc.cancelPlay()
	}
}
