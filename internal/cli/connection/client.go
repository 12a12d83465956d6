package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned when using a closed client.
var ErrClosed = errors.New("connection: client closed")

// ServerError is an error reply sent by the server.
type ServerError string

func (e ServerError) Error() string { return string(e) }

// Client is a RESP client over a single TCP connection. Requests are
// serialized; a Client is safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	buf    []byte
	closed bool
}

// Dial connects to a RESP server.
func Dial(ctx context.Context, addr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		buf:     make([]byte, 0, 4096),
	}, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Do sends one command and waits for its reply. An error reply is
// returned both as the frame and as a ServerError.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Frame, error) {
	if len(args) == 0 {
		return resp.Frame{}, errors.New("connection: empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Frame{}, ErrClosed
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return resp.Frame{}, err
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := c.conn.Write(resp.Command(args...).Bytes()); err != nil {
		return resp.Frame{}, c.fail(ctx, fmt.Errorf("write: %w", err))
	}

	f, err := c.readFrame()
	if err != nil {
		return resp.Frame{}, c.fail(ctx, err)
	}
	if f.Kind == resp.KindError {
		return f, ServerError(f.Str)
	}
	return f, nil
}

// readFrame reads until one complete reply is buffered. Bytes that arrive
// together with a read error are parsed before the error is reported.
func (c *Client) readFrame() (resp.Frame, error) {
	var readErr error
	for {
		if len(c.buf) > 0 {
			f, n, err := resp.Parse(c.buf)
			if err == nil {
				c.buf = c.buf[:copy(c.buf, c.buf[n:])]
				return f, nil
			}
			if !errors.Is(err, resp.ErrIncomplete) {
				return resp.Frame{}, fmt.Errorf("read reply: %w", err)
			}
		}
		if readErr != nil {
			return resp.Frame{}, fmt.Errorf("read reply: %w", readErr)
		}

		if len(c.buf) == cap(c.buf) {
			grown := make([]byte, len(c.buf), 2*cap(c.buf))
			copy(grown, c.buf)
			c.buf = grown
		}
		n, err := c.conn.Read(c.buf[len(c.buf):cap(c.buf)])
		c.buf = c.buf[:len(c.buf)+n]
		readErr = err
	}
}

// fail closes the connection after a transport error; the stream position
// is unknown afterwards.
func (c *Client) fail(ctx context.Context, err error) error {
	c.closed = true
	_ = c.conn.Close()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
