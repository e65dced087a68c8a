package transport

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// Serial is the wired link variant. It opens a serial device (typically
// an rfcomm binding of the robot's Bluetooth module) at a fixed baud
// rate and writes one command byte at a time.
type Serial struct {
	name string
	baud int

	mu   sync.Mutex
	port *serial.Port
}

// NewSerial creates an unopened serial transport for the given device.
func NewSerial(name string, baud int) *Serial {
	return &Serial{name: name, baud: baud}
}

// Open opens the serial device. The error wraps ErrNotFound,
// ErrPermissionDenied or ErrAlreadyInUse when the cause is clear.
func (s *Serial) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port != nil {
		return nil
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        s.name,
		Baud:        s.baud,
		ReadTimeout: time.Second,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.name, classifyOpenError(err))
	}

	s.port = port
	return nil
}

// Write sends a single byte, failing with ErrTimeout if the device does
// not accept it within the write deadline. The serial package has no
// native write deadline, so the write runs on its own goroutine; on
// timeout the port is left in an unknown state and should be closed.
func (s *Serial) Write(b byte) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()

	if port == nil {
		return ErrNotOpen
	}

	done := make(chan error, 1)
	go func() {
		_, err := port.Write([]byte{b})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("serial write: %w", err)
		}
		return nil
	case <-time.After(writeTimeout):
		return fmt.Errorf("serial write: %w", ErrTimeout)
	}
}

// Close closes the device. Closing an unopened transport is a no-op.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// IsOpen reports whether the device is currently open.
func (s *Serial) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port != nil
}

// classifyOpenError maps OS-level open failures onto the transport's
// error classes so callers can branch without string matching.
func classifyOpenError(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(err.Error(), "busy"),
		strings.Contains(err.Error(), "in use"):
		return fmt.Errorf("%w: %v", ErrAlreadyInUse, err)
	default:
		return err
	}
}
