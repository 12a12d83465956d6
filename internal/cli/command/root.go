package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

const sessionKey = "session"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "respkv-cli",
		Usage:     "command-line client for respkv",
		UsageText: "respkv-cli [global options] [command [arguments...]]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			EchoCommand(),
			GetCommand(),
			SetCommand(),
			DelCommand(),
			TTLCommand(),
			ReplCommand(),
			StatusCommand(),
			ConfigCommand(),
		},
		Action: rootAction,
		Before: before,
		After:  after,
	}
}

// globalFlags returns the global CLI flags. Unset flags fall back to the
// CLI config file.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "RESP server address",
			EnvVars: []string{"RESPKV_ADDR"},
			Value:   config.DefaultAddr,
		},
		&cli.StringFlag{
			Name:    "http-addr",
			Usage:   "server HTTP address for status",
			EnvVars: []string{"RESPKV_HTTP_ADDR"},
			Value:   config.DefaultHTTPAddr,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "dial and request timeout",
			Value: config.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
			EnvVars: []string{"RESPKV_OUTPUT"},
			Value:   config.DefaultOutput,
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"RESPKV_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
	}
}

// Session is the per-invocation state shared by commands.
type Session struct {
	Config     *config.CLIConfig
	ConfigPath string
	Conns      *connection.Manager
	Formatter  output.Formatter
}

func before(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("http-addr") {
		cfg.HTTPAddr = c.String("http-addr")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[sessionKey] = &Session{
		Config:     cfg,
		ConfigPath: path,
		Conns:      connection.NewManager(cfg.Timeout),
		Formatter:  output.NewFormatter(format),
	}
	return nil
}

func after(c *cli.Context) error {
	if s, err := session(c); err == nil {
		return s.Conns.Disconnect()
	}
	return nil
}

func session(c *cli.Context) (*Session, error) {
	if s, ok := c.App.Metadata[sessionKey].(*Session); ok {
		return s, nil
	}
	return nil, errors.New("cli session not initialized")
}

// client returns the session's connection, dialing on first use.
func client(c *cli.Context) (*connection.Client, error) {
	s, err := session(c)
	if err != nil {
		return nil, err
	}
	if cl, err := s.Conns.Client(); err == nil {
		return cl, nil
	}
	cl, err := s.Conns.Connect(c.Context, s.Config.Addr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to respkv at %s: %w", s.Config.Addr, err)
	}
	return cl, nil
}

// do sends one command and prints the reply. Error replies are returned
// as errors and not printed.
func do(c *cli.Context, args ...string) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	cl, err := client(c)
	if err != nil {
		return err
	}

	reply, err := cl.Do(c.Context, args...)
	if err != nil {
		return err
	}
	return s.Formatter.Format(c.App.Writer, reply)
}

// rootAction sends the arguments as a raw command, or starts the shell
// when there are none.
func rootAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return runRepl(c)
	}
	return do(c, c.Args().Slice()...)
}

// exactArgs checks the positional argument count.
func exactArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d (usage: %s %s)",
			c.Command.Name, n, c.NArg(), c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}
