package hub

import (
	"context"
	"errors"
)

var (
	ErrNotRunning       = errors.New("hub is not running")
	ErrAlreadyRunning   = errors.New("hub is already running")
	ErrConnectionClosed = errors.New("connection is closed")
)

// Connection represents any type of client session (SSE, WebSocket, etc.)
// that can receive pushed text.
type Connection interface {
	ID() string
	Type() string
	Send(ctx context.Context, payload string) error
	Close() error
	Context() context.Context
}
