package repl

import (
	"sort"
	"strings"
)

// CommandInfo describes a command for completion and help.
type CommandInfo struct {
	Name    string
	Args    string
	Summary string
	Local   bool
}

var commands = []CommandInfo{
	{Name: "PING", Args: "[message]", Summary: "Check the connection"},
	{Name: "ECHO", Args: "message", Summary: "Return the message"},
	{Name: "GET", Args: "key", Summary: "Get the value of a key"},
	{Name: "SET", Args: "key value [PX milliseconds | EX seconds]", Summary: "Set a key, optionally with an expiry"},
	{Name: "DEL", Args: "key [key ...]", Summary: "Delete keys"},
	{Name: "EXISTS", Args: "key [key ...]", Summary: "Count existing keys"},
	{Name: "TTL", Args: "key", Summary: "Remaining time to live in seconds"},
	{Name: "PTTL", Args: "key", Summary: "Remaining time to live in milliseconds"},
	{Name: "DBSIZE", Summary: "Number of keys"},
	{Name: "COMMAND", Summary: "List commands"},
	{Name: "QUIT", Summary: "Close the connection and exit"},
	{Name: "help", Args: "[prefix]", Summary: "Show commands", Local: true},
	{Name: "history", Summary: "Show command history", Local: true},
	{Name: "clear", Summary: "Clear the screen", Local: true},
	{Name: "exit", Summary: "Leave the shell", Local: true},
}

// Completer completes command names.
type Completer struct {
	commands []CommandInfo
}

// NewCompleter creates a Completer over the known commands.
func NewCompleter() *Completer {
	c := &Completer{commands: append([]CommandInfo(nil), commands...)}
	sort.Slice(c.commands, func(i, j int) bool {
		return strings.ToLower(c.commands[i].Name) < strings.ToLower(c.commands[j].Name)
	})
	return c
}

// Complete returns command names starting with prefix, ignoring case.
func (c *Completer) Complete(prefix string) []string {
	var out []string
	for _, info := range c.Lookup(prefix) {
		out = append(out, info.Name)
	}
	return out
}

// Lookup returns the commands whose name starts with prefix, ignoring case.
func (c *Completer) Lookup(prefix string) []CommandInfo {
	prefix = strings.ToLower(prefix)
	var out []CommandInfo
	for _, info := range c.commands {
		if strings.HasPrefix(strings.ToLower(info.Name), prefix) {
			out = append(out, info)
		}
	}
	return out
}
