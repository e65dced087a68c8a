package transport

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// Socket is the wireless link variant: a TCP stream to a peer that
// bridges bytes onto the robot's serial line.
type Socket struct {
	addr string

	mu   sync.Mutex
	conn net.Conn
}

// NewSocket creates an unopened socket transport for the given
// host:port address.
func NewSocket(addr string) *Socket {
	return &Socket{addr: addr}
}

// Open dials the peer with a bounded connect timeout. It returns only
// after the TCP handshake has completed, so a nil error means the peer
// has genuinely accepted the connection.
func (s *Socket) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("tcp", s.addr, connectTimeout)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return fmt.Errorf("connect %s: %w", s.addr, ErrTimeout)
		}
		return fmt.Errorf("connect %s: %w", s.addr, err)
	}

	s.conn = conn
	return nil
}

// Write sends a single byte under a write deadline.
func (s *Socket) Write(b byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return ErrNotOpen
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("socket write: %w", err)
	}
	if _, err := conn.Write([]byte{b}); err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return fmt.Errorf("socket write: %w", ErrTimeout)
		}
		return fmt.Errorf("socket write: %w", err)
	}
	return nil
}

// Close closes the connection. Closing an unopened transport is a no-op.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// IsOpen reports whether the connection is currently open.
func (s *Socket) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}
