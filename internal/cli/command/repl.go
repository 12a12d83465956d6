package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/repl"
)

// ReplCommand returns the interactive shell command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Start an interactive shell",
		Action: runRepl,
	}
}

func runRepl(c *cli.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	cl, err := client(c)
	if err != nil {
		return err
	}

	historyFile := s.Config.HistoryFile
	switch historyFile {
	case "":
		historyFile = repl.DefaultHistoryFile()
	case "-":
		historyFile = ""
	}

	r := repl.New(cl,
		repl.WithInput(c.App.Reader),
		repl.WithOutput(c.App.Writer),
		repl.WithPrompt(cl.Addr()),
		repl.WithFormatter(s.Formatter),
		repl.WithHistory(repl.NewHistory(historyFile, 0)),
	)
	return r.Run(c.Context)
}
