package command

import (
	"errors"
	"strconv"

	"github.com/urfave/cli/v2"
)

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:      "ping",
		Usage:     "Check the server connection",
		ArgsUsage: "[message]",
		Action: func(c *cli.Context) error {
			if c.NArg() > 1 {
				return exactArgs(c, 1)
			}
			return do(c, append([]string{"PING"}, c.Args().Slice()...)...)
		},
	}
}

// EchoCommand returns the echo command.
func EchoCommand() *cli.Command {
	return &cli.Command{
		Name:      "echo",
		Usage:     "Echo a message through the server",
		ArgsUsage: "MESSAGE",
		Action: func(c *cli.Context) error {
			if err := exactArgs(c, 1); err != nil {
				return err
			}
			return do(c, "ECHO", c.Args().First())
		},
	}
}

// GetCommand returns the get command.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get the value of a key",
		ArgsUsage: "KEY",
		Action: func(c *cli.Context) error {
			if err := exactArgs(c, 1); err != nil {
				return err
			}
			return do(c, "GET", c.Args().First())
		},
	}
}

// SetCommand returns the set command.
func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Set a key, optionally with an expiry",
		ArgsUsage: "KEY VALUE",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "px",
				Usage: "expire after `MILLISECONDS`",
			},
			&cli.Int64Flag{
				Name:  "ex",
				Usage: "expire after `SECONDS`",
			},
		},
		Action: setAction,
	}
}

func setAction(c *cli.Context) error {
	if err := exactArgs(c, 2); err != nil {
		return err
	}
	if c.IsSet("px") && c.IsSet("ex") {
		return errors.New("set: --px and --ex are mutually exclusive")
	}

	args := []string{"SET", c.Args().Get(0), c.Args().Get(1)}
	switch {
	case c.IsSet("px"):
		args = append(args, "PX", strconv.FormatInt(c.Int64("px"), 10))
	case c.IsSet("ex"):
		args = append(args, "EX", strconv.FormatInt(c.Int64("ex"), 10))
	}
	return do(c, args...)
}

// DelCommand returns the del command.
func DelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "Delete keys",
		ArgsUsage: "KEY [KEY...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return exactArgs(c, 1)
			}
			return do(c, append([]string{"DEL"}, c.Args().Slice()...)...)
		},
	}
}

// TTLCommand returns the ttl command.
func TTLCommand() *cli.Command {
	return &cli.Command{
		Name:      "ttl",
		Usage:     "Show the remaining time to live of a key",
		ArgsUsage: "KEY",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "ms",
				Usage: "report milliseconds (PTTL)",
			},
		},
		Action: func(c *cli.Context) error {
			if err := exactArgs(c, 1); err != nil {
				return err
			}
			cmd := "TTL"
			if c.Bool("ms") {
				cmd = "PTTL"
			}
			return do(c, cmd, c.Args().First())
		},
	}
}
