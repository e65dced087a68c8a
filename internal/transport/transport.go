// Package transport abstracts the physical link to the robot behind a
// single contract. Three variants exist: a wired serial port, a TCP
// socket (for Bluetooth serial bridges exposed over the network), and an
// in-memory virtual link used for development and tests.
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/yantra/internal/config"
)

// Open and write failure classes. Open errors wrap one of the first
// four; write errors wrap ErrTimeout or the underlying link error.
var (
	ErrNotFound         = errors.New("device not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTimeout          = errors.New("timed out")
	ErrAlreadyInUse     = errors.New("device already in use")
	ErrNotOpen          = errors.New("transport not open")
)

// Write and connect deadlines. A single-byte write that takes longer
// than writeTimeout means the link is gone, not slow.
const (
	writeTimeout   = 2 * time.Second
	connectTimeout = 10 * time.Second
)

// Transport is the contract every link variant implements.
//
// Open establishes the link and does not return success until the peer
// has actually accepted the connection. Write sends a single protocol
// byte with a bounded timeout. Close is idempotent; closing an
// already-closed transport is a no-op. A Transport never retries on its
// own: retry policy belongs to the caller.
type Transport interface {
	Open() error
	Write(b byte) error
	Close() error
	IsOpen() bool
}

// New builds the transport variant selected by the connection config.
// The returned transport is not yet open.
func New(cfg config.Connection) (Transport, error) {
	switch cfg.Kind {
	case "serial":
		return NewSerial(cfg.Address, cfg.Baud), nil
	case "socket":
		return NewSocket(cfg.Address), nil
	case "virtual":
		return NewVirtual(), nil
	default:
		return nil, fmt.Errorf("unknown connection kind %q", cfg.Kind)
	}
}
