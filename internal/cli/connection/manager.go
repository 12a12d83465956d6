package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotConnected is returned when no server is connected.
var ErrNotConnected = errors.New("not connected to any server")

// Manager tracks the current server connection of a CLI session.
type Manager struct {
	mu      sync.Mutex
	current *Client
	timeout time.Duration
}

// NewManager creates a new connection manager.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr, checks it with PING and makes it the current
// connection. The previous connection is closed on success.
func (m *Manager) Connect(ctx context.Context, addr string) (*Client, error) {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return nil, err
	}

	if _, err := c.Do(ctx, "PING"); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping %s: %w", addr, err)
	}

	m.mu.Lock()
	prev := m.current
	m.current = c
	m.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return c, nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	c := m.current
	m.current = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Current returns the current connection, or nil.
func (m *Manager) Current() *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// IsConnected returns true if connected to a server.
func (m *Manager) IsConnected() bool {
	return m.Current() != nil
}

// Client returns the current connection or ErrNotConnected.
func (m *Manager) Client() (*Client, error) {
	if c := m.Current(); c != nil {
		return c, nil
	}
	return nil, ErrNotConnected
}
