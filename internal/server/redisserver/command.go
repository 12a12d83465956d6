package redisserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

var (
	ErrNoCommand      = errors.New("no command")
	ErrSyntax         = errors.New("syntax error")
	ErrNotInteger     = errors.New("value is not an integer or out of range")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrWrongArgs      = errors.New("wrong number of arguments")
	ErrInvalidExpire  = errors.New("invalid expire time")
	ErrUnknownCommand = errors.New("unknown command")
)

// Store is the key-value backend used by the command handler.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(keys ...string) int
	Exists(keys ...string) int
	TTL(key string) (remaining time.Duration, hasExpiry, found bool)
	Len() int
}

// commandError carries the command name alongside a sentinel error.
type commandError struct {
	cmd string
	err error
}

func (e *commandError) Error() string {
	switch {
	case errors.Is(e.err, ErrWrongArgs):
		return fmt.Sprintf("wrong number of arguments for '%s' command", e.cmd)
	case errors.Is(e.err, ErrInvalidExpire):
		return fmt.Sprintf("invalid expire time in '%s' command", e.cmd)
	case errors.Is(e.err, ErrUnknownCommand):
		return fmt.Sprintf("unknown command '%s'", e.cmd)
	default:
		return e.err.Error()
	}
}

func (e *commandError) Unwrap() error {
	return e.err
}

func wrongArgs(cmd string) error {
	return &commandError{cmd: cmd, err: ErrWrongArgs}
}

// formatError converts an error to a client visible error string.
func formatError(err error) string {
	return "ERR " + err.Error()
}

func errorReply(err error) resp.Frame {
	return resp.Error(formatError(err))
}

var (
	replyOK   = resp.Simple("OK")
	replyPong = resp.Simple("PONG")
	replyNone = resp.Simple("none")
)

// knownCommands bounds the command label used for metrics.
var knownCommands = map[string]bool{
	"PING": true, "ECHO": true, "QUIT": true, "COMMAND": true,
	"GET": true, "SET": true, "DEL": true, "EXISTS": true,
	"TTL": true, "PTTL": true, "DBSIZE": true,
}

// CommandHandler executes requests against a Store.
type CommandHandler struct {
	store       Store
	logger      *slog.Logger
	metrics     Metrics
	rateLimiter *rateLimiter
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, cfg *Config, metrics Metrics, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	var rl *rateLimiter
	if cfg != nil && cfg.RateLimit > 0 {
		rl = newRateLimiter(cfg.RateLimit)
	}

	return &CommandHandler{
		store:       store,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rl,
	}
}

// Handle executes one request and returns its reply.
func (h *CommandHandler) Handle(ctx context.Context, conn *Conn, args [][]byte) resp.Frame {
	if len(args) == 0 {
		return errorReply(ErrNoCommand)
	}

	start := time.Now()
	cmdName := normalizeCommandName(args[0])

	reply := h.dispatch(conn, cmdName, args)

	label := cmdName
	if !knownCommands[label] {
		label = "unknown"
	}
	failed := reply.Kind == resp.KindError
	h.metrics.CommandProcessed(label, failed, time.Since(start))

	h.logger.DebugContext(ctx, "command executed",
		"command", label,
		"args", len(args)-1,
		"failed", failed,
	)

	return reply
}

func (h *CommandHandler) dispatch(conn *Conn, cmdName string, args [][]byte) resp.Frame {
	if cmdName == "QUIT" {
		return h.handleQuit(conn, args)
	}

	if h.rateLimiter != nil && !h.rateLimiter.allow(clientIP(conn.RemoteAddr())) {
		return errorReply(ErrRateLimited)
	}

	switch cmdName {
	case "PING":
		return h.handlePing(args)
	case "ECHO":
		return h.handleEcho(args)
	case "COMMAND":
		return resp.Array()
	case "GET":
		return h.handleGet(args)
	case "SET":
		return h.handleSet(args)
	case "DEL":
		return h.handleDel(args)
	case "EXISTS":
		return h.handleExists(args)
	case "TTL":
		return h.handleTTL(args, time.Second)
	case "PTTL":
		return h.handleTTL(args, time.Millisecond)
	case "DBSIZE":
		return h.handleDBSize(args)
	default:
		return errorReply(&commandError{cmd: string(args[0]), err: ErrUnknownCommand})
	}
}

// PING [message]
func (h *CommandHandler) handlePing(args [][]byte) resp.Frame {
	switch len(args) {
	case 1:
		return replyPong
	case 2:
		if len(args[1]) == 0 {
			return replyPong
		}
		return resp.Bulk(args[1])
	default:
		return errorReply(wrongArgs("PING"))
	}
}

// ECHO <message>
func (h *CommandHandler) handleEcho(args [][]byte) resp.Frame {
	if len(args) != 2 {
		return errorReply(wrongArgs("ECHO"))
	}
	return resp.Bulk(args[1])
}

func (h *CommandHandler) handleQuit(conn *Conn, _ [][]byte) resp.Frame {
	conn.quit = true
	return replyOK
}

// GET <key>
func (h *CommandHandler) handleGet(args [][]byte) resp.Frame {
	if len(args) != 2 {
		return errorReply(wrongArgs("GET"))
	}

	value, ok := h.store.Get(string(args[1]))
	if !ok {
		return resp.Null()
	}
	return resp.Bulk(value)
}

// SET <key> <value> [PX milliseconds | EX seconds]
func (h *CommandHandler) handleSet(args [][]byte) resp.Frame {
	if len(args) < 3 {
		return errorReply(wrongArgs("SET"))
	}

	ttl, err := parseSetOptions(args[3:])
	if err != nil {
		return errorReply(err)
	}

	h.store.Set(string(args[1]), args[2], ttl)
	return replyOK
}

func parseSetOptions(opts [][]byte) (time.Duration, error) {
	var ttl time.Duration
	seen := false

	for i := 0; i < len(opts); i += 2 {
		if i+1 >= len(opts) {
			return 0, ErrSyntax
		}

		var unit time.Duration
		switch normalizeCommandName(opts[i]) {
		case "PX":
			unit = time.Millisecond
		case "EX":
			unit = time.Second
		default:
			return 0, ErrSyntax
		}
		if seen {
			return 0, ErrSyntax
		}
		seen = true

		n, err := strconv.ParseInt(string(opts[i+1]), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		if n <= 0 || n > math.MaxInt64/int64(unit) {
			return 0, &commandError{cmd: "set", err: ErrInvalidExpire}
		}
		ttl = time.Duration(n) * unit
	}

	return ttl, nil
}

// DEL <key> [key ...]
func (h *CommandHandler) handleDel(args [][]byte) resp.Frame {
	if len(args) < 2 {
		return errorReply(wrongArgs("DEL"))
	}
	return resp.Integer(uint64(h.store.Delete(keys(args[1:])...)))
}

// EXISTS <key> [key ...]
func (h *CommandHandler) handleExists(args [][]byte) resp.Frame {
	if len(args) < 2 {
		return errorReply(wrongArgs("EXISTS"))
	}
	return resp.Integer(uint64(h.store.Exists(keys(args[1:])...)))
}

// TTL <key> and PTTL <key>
//
// Replies with the remaining time rounded up to unit. Integer replies are
// never negative, so a missing key is Null and a key without expiry is
// the simple string "none".
func (h *CommandHandler) handleTTL(args [][]byte, unit time.Duration) resp.Frame {
	if len(args) != 2 {
		if unit == time.Millisecond {
			return errorReply(wrongArgs("PTTL"))
		}
		return errorReply(wrongArgs("TTL"))
	}

	remaining, hasExpiry, found := h.store.TTL(string(args[1]))
	switch {
	case !found:
		return resp.Null()
	case !hasExpiry:
		return replyNone
	}

	if remaining < 0 {
		remaining = 0
	}
	return resp.Integer(uint64((remaining + unit - 1) / unit))
}

// DBSIZE
func (h *CommandHandler) handleDBSize(args [][]byte) resp.Frame {
	if len(args) != 1 {
		return errorReply(wrongArgs("DBSIZE"))
	}
	return resp.Integer(uint64(h.store.Len()))
}

func keys(args [][]byte) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = string(a)
	}
	return out
}

func clientIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

func normalizeCommandName(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased tokens.
	if bytes.ContainsAny(b, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(string(b))
	}
	return string(b)
}
