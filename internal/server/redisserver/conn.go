package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

const (
	// initialBufferSize is the first allocation of a connection read buffer.
	initialBufferSize = 4 * 1024

	// maxRetainedBuffer is the largest buffer kept between requests.
	// Larger buffers are released once drained.
	maxRetainedBuffer = 64 * 1024
)

// Conn is a single client connection.
//
// Incoming bytes accumulate in buf; buf[start:] holds what has not been
// parsed yet. A Conn is used by one goroutine at a time, except Close
// which may be called from anywhere.
type Conn struct {
	netConn net.Conn
	id      string
	parser  resp.Parser

	buf   []byte
	start int
	wbuf  []byte

	idleTimeout  time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration

	quit   bool
	closed atomic.Bool
}

func newConn(c net.Conn, cfg *Config) *Conn {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Conn{
		netConn: c,
		id:      ulid.Make().String(),
		parser: resp.Parser{
			MaxArrayLen: cfg.MaxArrayLen,
			MaxBulkLen:  cfg.MaxBulkLen,
		},
		idleTimeout:  cfg.IdleTimeout,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// ReadFrame returns the next complete frame sent by the client.
//
// Bytes following the frame stay buffered for the next call, so
// pipelined requests are served one at a time. io.EOF is returned when
// the peer closes between frames and io.ErrUnexpectedEOF when it closes
// in the middle of one. Errors wrapping resp.ErrProtocol are fatal.
func (c *Conn) ReadFrame(ctx context.Context) (resp.Frame, error) {
	for {
		if c.start < len(c.buf) {
			f, n, err := c.parser.Parse(c.buf[c.start:])
			if err == nil {
				c.consume(n)
				return f, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				return resp.Frame{}, err
			}
		}

		if err := ctx.Err(); err != nil {
			return resp.Frame{}, err
		}

		if err := c.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				if c.start == len(c.buf) {
					return resp.Frame{}, io.EOF
				}
				return resp.Frame{}, io.ErrUnexpectedEOF
			}
			return resp.Frame{}, err
		}
	}
}

// WriteFrame encodes f and sends it with a single write.
func (c *Conn) WriteFrame(f resp.Frame) error {
	c.wbuf = resp.AppendFrame(c.wbuf[:0], f)

	if c.writeTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	_, err := c.netConn.Write(c.wbuf)

	if cap(c.wbuf) > maxRetainedBuffer {
		c.wbuf = nil
	}
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Buffered returns the number of received bytes not yet parsed.
func (c *Conn) Buffered() int {
	return len(c.buf) - c.start
}

func (c *Conn) consume(n int) {
	c.start += n
	if c.start < len(c.buf) {
		return
	}
	c.start = 0
	if cap(c.buf) > maxRetainedBuffer {
		c.buf = nil
		return
	}
	c.buf = c.buf[:0]
}

// fill reads more bytes from the socket, compacting or growing buf first
// so there is room at the end.
func (c *Conn) fill() error {
	if c.start > 0 {
		n := copy(c.buf, c.buf[c.start:])
		c.buf = c.buf[:n]
		c.start = 0
	}
	if len(c.buf) == cap(c.buf) {
		size := 2 * cap(c.buf)
		if size < initialBufferSize {
			size = initialBufferSize
		}
		grown := make([]byte, len(c.buf), size)
		copy(grown, c.buf)
		c.buf = grown
	}

	// An empty buffer means the client is between requests.
	timeout := c.readTimeout
	if len(c.buf) == 0 {
		timeout = c.idleTimeout
	}
	if timeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return fmt.Errorf("set read deadline: %w", err)
		}
	}

	n, err := c.netConn.Read(c.buf[len(c.buf):cap(c.buf)])
	c.buf = c.buf[:len(c.buf)+n]
	if n > 0 {
		return nil
	}
	return err
}
