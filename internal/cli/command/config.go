package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the CLI config file",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:      "set",
				Usage:     "Set a value in the config file",
				ArgsUsage: "KEY VALUE",
				Description: "KEY is one of addr, http_addr, output, timeout, history_file.\n" +
					"Only the file is updated; flags still take precedence.",
				Action: configSet,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	return s.Formatter.Format(c.App.Writer, s.Config)
}

func configPath(c *cli.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, s.ConfigPath)
	return err
}

func configSet(c *cli.Context) error {
	if err := exactArgs(c, 2); err != nil {
		return err
	}
	s, err := session(c)
	if err != nil {
		return err
	}

	// Flags must not leak into the saved file.
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}

	key, value := c.Args().Get(0), c.Args().Get(1)
	switch key {
	case "addr":
		cfg.Addr = value
	case "http_addr":
		cfg.HTTPAddr = value
	case "output":
		cfg.Output = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	case "history_file":
		cfg.HistoryFile = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, s.ConfigPath); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%s = %s\n", key, value)
	return err
}
