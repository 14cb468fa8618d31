package shell

import (
	"github.com/chzyer/readline"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/strategy"
)

func completer() *readline.PrefixCompleter {
	difficulties := lo.Map(strategy.Difficulties(), func(d strategy.Difficulty, _ int) readline.PrefixCompleterInterface {
		return readline.PcItem(d.String())
	})
	return readline.NewPrefixCompleter(
		readline.PcItem("new",
			readline.PcItem("-rows"),
			readline.PcItem("-columns"),
			readline.PcItem("-win"),
		),
		readline.PcItem("add",
			readline.PcItem("human"),
			readline.PcItem("computer"),
		),
		readline.PcItem("play"),
		readline.PcItem("show"),
		readline.PcItem("analyze"),
		readline.PcItem("analyze-all"),
		readline.PcItem("settings"),
		readline.PcItem("set",
			readline.PcItem("default-difficulty", difficulties...),
			readline.PcItem("analysis-depth"),
			readline.PcItem("analysis-threads"),
			readline.PcItem("color", readline.PcItem("true"), readline.PcItem("false")),
			readline.PcItem("debug", readline.PcItem("true"), readline.PcItem("false")),
		),
		readline.PcItem("help",
			readline.PcItem("new"),
			readline.PcItem("add"),
			readline.PcItem("play"),
			readline.PcItem("analyze"),
			readline.PcItem("set"),
		),
		readline.PcItem("exit"),
	)
}
