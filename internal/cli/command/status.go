package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
)

// StatusInfo is the combined output of the status command.
type StatusInfo struct {
	Server    string    `json:"server" yaml:"server"`
	Status    string    `json:"status" yaml:"status"`
	Keys      *int      `json:"keys,omitempty" yaml:"keys,omitempty"`
	Time      time.Time `json:"time" yaml:"time"`
	Version   string    `json:"version" yaml:"version"`
	Commit    string    `json:"commit" yaml:"commit"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server health and version from the HTTP endpoint",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	s, err := session(c)
	if err != nil {
		return err
	}

	hc := connection.NewHTTPClient(s.Config.HTTPAddr, s.Config.Timeout)

	var health struct {
		Status string    `json:"status"`
		Time   time.Time `json:"time"`
		Keys   *int      `json:"keys"`
	}
	if err := hc.Get(c.Context, "/health", &health); err != nil {
		return err
	}

	var version struct {
		Version   string `json:"version"`
		Commit    string `json:"commit"`
		GoVersion string `json:"go_version"`
	}
	if err := hc.Get(c.Context, "/version", &version); err != nil {
		return err
	}

	return s.Formatter.Format(c.App.Writer, StatusInfo{
		Server:    hc.BaseURL(),
		Status:    health.Status,
		Keys:      health.Keys,
		Time:      health.Time,
		Version:   version.Version,
		Commit:    version.Commit,
		GoVersion: version.GoVersion,
	})
}
