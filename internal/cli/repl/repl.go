package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/protocol/resp"
)

// Executor sends one command to the server.
type Executor interface {
	Do(ctx context.Context, args ...string) (resp.Frame, error)
}

// REPL is the interactive read-eval-print loop.
type REPL struct {
	exec      Executor
	input     io.Reader
	output    io.Writer
	prompt    string
	formatter output.Formatter
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the input stream.
func WithInput(r io.Reader) Option {
	return func(repl *REPL) { repl.input = r }
}

// WithOutput sets the output stream.
func WithOutput(w io.Writer) Option {
	return func(repl *REPL) { repl.output = w }
}

// WithPrompt sets the prompt, usually the server address.
func WithPrompt(prompt string) Option {
	return func(repl *REPL) { repl.prompt = prompt }
}

// WithFormatter sets how replies are printed.
func WithFormatter(f output.Formatter) Option {
	return func(repl *REPL) { repl.formatter = f }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(repl *REPL) { repl.history = h }
}

// New creates a REPL that sends commands through exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		exec:      exec,
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "respkv",
		formatter: &output.TextFormatter{},
		completer: NewCompleter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("", 0)
	}
	return r
}

// Run reads lines until EOF, exit, QUIT or ctx is done. History is loaded
// before the first prompt and saved on return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(r.input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintf(r.output, "%s> ", r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.output)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r.history.Add(line)

		done, err := r.execute(ctx, line)
		if err != nil {
			fmt.Fprintf(r.output, "(error) %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// execute runs one line and reports whether the session should end.
func (r *REPL) execute(ctx context.Context, line string) (bool, error) {
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	switch strings.ToLower(args[0]) {
	case "exit":
		return true, nil
	case "help":
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}
		return false, r.printHelp(prefix)
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false, nil
	case "clear":
		fmt.Fprint(r.output, "\033[H\033[2J")
		return false, nil
	}

	reply, err := r.exec.Do(ctx, args...)
	if err != nil && reply.Kind != resp.KindError {
		return false, err
	}
	if ferr := r.formatter.Format(r.output, reply); ferr != nil {
		return false, ferr
	}
	return strings.EqualFold(args[0], "QUIT"), nil
}

func (r *REPL) printHelp(prefix string) error {
	infos := r.completer.Lookup(prefix)
	if len(infos) == 0 {
		return errors.New("no command matches " + prefix)
	}

	tw := tabwriter.NewWriter(r.output, 0, 0, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s %s\t%s\n", info.Name, info.Args, info.Summary)
	}
	return tw.Flush()
}
