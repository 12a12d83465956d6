package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/protocol/resp"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/cmap"
)

// Config holds the RESP server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadTimeout bounds reading the rest of a request once its first
	// bytes arrived (default: 30s). Helps prevent slowloris attacks.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing a response (default: 30s).
	WriteTimeout time.Duration
	// IdleTimeout is how long a connection may sit between requests (default: 5m).
	IdleTimeout time.Duration
	// RateLimit is the maximum number of commands per second per client IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxBulkLen limits a single bulk string in a request.
	MaxBulkLen int
	// MaxArrayLen limits the number of arguments in a request.
	MaxArrayLen int
	// MaxClients limits concurrent connections. 0 means unlimited.
	MaxClients int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:      "127.0.0.1:6379",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  5 * time.Minute,
		RateLimit:    0,
		MaxBulkLen:   512 * 1024,
		MaxArrayLen:  resp.MaxArrayLen,
		MaxClients:   10000,
	}
}

// Metrics receives server events.
// Implementations must be safe for concurrent use.
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	ProtocolError()
	CommandProcessed(command string, failed bool, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ConnectionOpened()                            {}
func (nopMetrics) ConnectionClosed()                            {}
func (nopMetrics) ProtocolError()                               {}
func (nopMetrics) CommandProcessed(string, bool, time.Duration) {}

// Option configures the Server.
type Option func(*Server)

// WithMetrics sets the metrics sink for the server and its command handler.
func WithMetrics(m Metrics) Option {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Server is the RESP protocol server.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	logger  *slog.Logger
	metrics Metrics

	mu    sync.Mutex
	ln    net.Listener
	conns *cmap.Map[string, *Conn]

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server backed by store.
func New(cfg *Config, store Store, logger *slog.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		metrics: nopMetrics{},
		conns:   cmap.New[string, *Conn](),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.handler = NewCommandHandler(store, cfg, s.metrics, logger)

	return s
}

// Start binds the listener and serves connections in the background.
// Accepting stops when ctx is done or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.running.Store(true)

	s.logger.Info("starting redis server", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ConnCount returns the number of open client connections.
func (s *Server) ConnCount() int {
	return s.conns.Len()
}

// Shutdown stops accepting, closes every client connection and waits for
// their goroutines to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	s.mu.Unlock()

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		s.running.Store(false)
		_ = ln.Close()
	})
	defer stop()

	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		c := newConn(nc, s.cfg)

		if s.cfg.MaxClients > 0 && s.conns.Len() >= s.cfg.MaxClients {
			s.logger.Warn("max clients reached, rejecting connection",
				"remote", c.RemoteAddr().String(),
				"max_clients", s.cfg.MaxClients,
			)
			_ = c.WriteFrame(resp.Error("ERR max number of clients reached"))
			_ = c.Close()
			continue
		}

		// Registered before the goroutine starts so the next Accept already
		// counts it against MaxClients.
		s.conns.Set(c.ID(), c)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, c)
		}()
	}
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer func() {
		_ = c.Close()
		s.conns.Delete(c.ID())
	}()

	// Shutdown flips running before it walks the registry, so a connection
	// registered after the walk is caught here.
	if !s.running.Load() {
		return
	}

	ctx = logger.WithConnID(ctx, c.ID())
	ctx = logger.WithRemoteAddr(ctx, c.RemoteAddr().String())

	s.metrics.ConnectionOpened()
	s.logger.DebugContext(ctx, "connection opened")

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer func() {
		stop()
		s.metrics.ConnectionClosed()
		s.logger.DebugContext(ctx, "connection closed")
	}()

	for {
		f, err := c.ReadFrame(ctx)
		if err != nil {
			s.handleReadError(ctx, c, err)
			return
		}

		args, err := requestArgs(f)
		if err != nil {
			s.handleReadError(ctx, c, err)
			return
		}

		reply := s.handler.Handle(ctx, c, args)
		if err := c.WriteFrame(reply); err != nil {
			s.logger.DebugContext(ctx, "connection write error", "error", err)
			return
		}
		if c.quit {
			return
		}
	}
}

func (s *Server) handleReadError(ctx context.Context, c *Conn, err error) {
	var netErr net.Error

	switch {
	case errors.Is(err, io.EOF):
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.logger.DebugContext(ctx, "client closed mid-request", "buffered", c.Buffered())
	case errors.Is(err, resp.ErrProtocol):
		s.metrics.ProtocolError()
		if errors.Is(err, resp.ErrLimitExceeded) {
			s.logger.WarnContext(ctx, "protocol limit exceeded", "error", err)
		} else {
			s.logger.DebugContext(ctx, "protocol error", "error", err)
		}
		_ = c.WriteFrame(resp.Error(protocolErrorMessage(err)))
	case errors.As(err, &netErr) && netErr.Timeout():
		s.logger.DebugContext(ctx, "connection timed out")
	case errors.Is(err, net.ErrClosed), errors.Is(err, context.Canceled):
	default:
		s.logger.DebugContext(ctx, "connection read error", "error", err)
	}
}

// requestArgs unpacks a request frame into its arguments.
func requestArgs(f resp.Frame) ([][]byte, error) {
	if f.Kind != resp.KindArray {
		return nil, fmt.Errorf("%w: expected array, got %s", resp.ErrProtocol, f.Kind)
	}
	args := make([][]byte, 0, len(f.Array))
	for _, item := range f.Array {
		switch item.Kind {
		case resp.KindBulk:
			args = append(args, item.Bulk)
		case resp.KindSimple:
			args = append(args, []byte(item.Str))
		default:
			return nil, fmt.Errorf("%w: expected bulk string argument, got %s", resp.ErrProtocol, item.Kind)
		}
	}
	return args, nil
}

func protocolErrorMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
	return "ERR protocol error: " + msg
}
