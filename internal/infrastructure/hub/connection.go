package hub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gorilla/websocket"

	"go-notification-relay/internal/infrastructure/logger"
)

// WebSocketOptions configures keep-alive and write behaviour of a
// WebSocketConnection. Zero values select defaults.
type WebSocketOptions struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongTimeout  time.Duration
}

func (o *WebSocketOptions) withDefaults() {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongTimeout <= 0 {
		o.PongTimeout = 60 * time.Second
	}
	if o.PingInterval <= 0 || o.PingInterval >= o.PongTimeout {
		o.PingInterval = o.PongTimeout * 9 / 10
	}
}

// WebSocketConnection implements the Connection interface for WebSocket connections
type WebSocketConnection struct {
	id   string
	conn *websocket.Conn

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// gorilla allows one concurrent writer; broadcasts and echo replies share it.
	writeMu sync.Mutex

	logger logger.Logger
	opts   WebSocketOptions
}

// NewWebSocketConnection wraps an upgraded connection and starts its pinger.
// The caller owns the receive loop (see Receive).
func NewWebSocketConnection(
	id string,
	conn *websocket.Conn,
	logger logger.Logger,
	opts WebSocketOptions,
) *WebSocketConnection {
	opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	c := &WebSocketConnection{
		id:     id,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		logger: logger.WithField("connection_id", id),
		opts:   opts,
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongTimeout))
	})

	go c.pingLoop()

	return c
}

// ID returns unique connection identifier
func (c *WebSocketConnection) ID() string {
	return c.id
}

// Type returns the connection type
func (c *WebSocketConnection) Type() string {
	return "websocket"
}

// Send writes payload as a single text frame. The write deadline is the
// earlier of ctx's deadline and the configured write timeout.
func (c *WebSocketConnection) Send(ctx context.Context, payload string) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.opts.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		return fmt.Errorf("write text frame: %w", err)
	}
	return nil
}

// Receive blocks until the client sends a text frame and returns its content.
// Binary frames are skipped. Any error means the connection is gone.
func (c *WebSocketConnection) Receive() (string, error) {
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				c.logger.Warnf("WebSocket read error: %v", err)
			}
			return "", err
		}

		if messageType == websocket.TextMessage {
			return string(data), nil
		}
		c.logger.Debugf("Ignoring binary message of length %d", len(data))
	}
}

// Close sends a close frame and closes the underlying connection. It is safe
// to call more than once and concurrently with Send.
func (c *WebSocketConnection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()

		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		err = c.conn.Close()

		c.logger.Info("WebSocket connection closed")
	})
	return err
}

// IsClosed returns true if connection is closed
func (c *WebSocketConnection) IsClosed() bool {
	return c.ctx.Err() != nil
}

// Context is cancelled when the connection is closed.
func (c *WebSocketConnection) Context() context.Context {
	return c.ctx
}

func (c *WebSocketConnection) pingLoop() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.opts.WriteTimeout))
			if err != nil {
				c.logger.Warnf("Failed to send ping: %v", err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// SSEConnection implements the Connection interface for Server-Sent Events
type SSEConnection struct {
	id     string
	writer http.ResponseWriter

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	writeMu sync.Mutex

	logger            logger.Logger
	keepAliveInterval time.Duration
}

// NewSSEConnection creates a new SSE connection bound to the request context.
// A keepAliveInterval <= 0 disables keep-alive events.
func NewSSEConnection(
	ctx context.Context,
	id string,
	w http.ResponseWriter,
	logger logger.Logger,
	keepAliveInterval time.Duration,
) *SSEConnection {
	rctx, cancel := context.WithCancel(ctx)

	conn := &SSEConnection{
		id:                id,
		writer:            w,
		ctx:               rctx,
		cancel:            cancel,
		logger:            logger.WithField("connection_id", id),
		keepAliveInterval: keepAliveInterval,
	}

	conn.setupSSEHeaders()

	if keepAliveInterval > 0 {
		go conn.keepAlive()
	}

	return conn
}

// ID returns unique connection identifier
func (c *SSEConnection) ID() string {
	return c.id
}

// Type returns the connection type
func (c *SSEConnection) Type() string {
	return "sse"
}

// Send pushes payload verbatim as the data of a "message" event.
func (c *SSEConnection) Send(ctx context.Context, payload string) error {
	return c.writeEvent(ctx, sse.Event{Event: "message", Data: payload})
}

// SendEvent writes an arbitrary named event, e.g. the initial handshake.
func (c *SSEConnection) SendEvent(ctx context.Context, event string, data any) error {
	return c.writeEvent(ctx, sse.Event{Event: event, Data: data})
}

// writeEvent encodes and flushes one event. http.ResponseWriter has no write
// deadline, so the write runs in its own goroutine and is abandoned (and the
// connection closed) when ctx expires.
func (c *SSEConnection) writeEvent(ctx context.Context, event sse.Event) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}

	done := make(chan error, 1)
	go func() {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()

		if c.IsClosed() {
			done <- ErrConnectionClosed
			return
		}
		if err := sse.Encode(c.writer, event); err != nil {
			done <- err
			return
		}
		if flusher, ok := c.writer.(http.Flusher); ok {
			flusher.Flush()
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			c.logger.Errorf("Failed to write event: %v", err)
			_ = c.Close()
			return err
		}
		return nil
	case <-ctx.Done():
		c.logger.Warn("Send operation timed out")
		_ = c.Close()
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrConnectionClosed
	}
}

// Close marks the connection closed; the handler serving the stream returns
// once Context is done.
func (c *SSEConnection) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.logger.Info("SSE connection closed")
	})
	return nil
}

// Wait blocks until no write is in progress. The handler calls it after
// Close and before returning, so nothing touches the ResponseWriter later.
func (c *SSEConnection) Wait() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
}

// IsClosed returns true if connection is closed
func (c *SSEConnection) IsClosed() bool {
	return c.ctx.Err() != nil
}

// Context returns the connection's context (for cancellation)
func (c *SSEConnection) Context() context.Context {
	return c.ctx
}

func (c *SSEConnection) setupSSEHeaders() {
	h := c.writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // For nginx
}

func (c *SSEConnection) keepAlive() {
	ticker := time.NewTicker(c.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, c.keepAliveInterval)
			err := c.SendEvent(ctx, "keepalive", time.Now().Unix())
			cancel()
			if err != nil {
				c.logger.Warnf("Failed to send keep-alive: %v", err)
				_ = c.Close()
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
