package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// RuntimeClient binds one authenticated user to one physical connection.
// Outbound events pass through a buffered channel drained by a single
// write loop, which keeps per-connection delivery FIFO and writes
// single-threaded.
type RuntimeClient struct {
	ctx         context.Context
	cancel      context.CancelFunc
	ws          *WebSocket
	connID      string
	userID      string
	remoteAddr  string
	connectedAt time.Time
	out         chan []byte
	once        sync.Once
}

func NewClient(
	parent context.Context,
	ws *WebSocket,
	userID, remoteAddr string,
	sendBuffer int,
) *RuntimeClient {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	ctx, cancel := context.WithCancel(parent)
	c := &RuntimeClient{
		ctx:         ctx,
		cancel:      cancel,
		ws:          ws,
		connID:      uuid.NewString(),
		userID:      userID,
		remoteAddr:  remoteAddr,
		connectedAt: time.Now(),
		out:         make(chan []byte, sendBuffer),
	}
	go c.writeLoop()
	return c
}

func (c *RuntimeClient) ID() string     { return c.connID }
func (c *RuntimeClient) UserID() string { return c.userID }

func (c *RuntimeClient) Info() domain.ConnectionInfo {
	return domain.ConnectionInfo{
		ID:          c.connID,
		UserID:      c.userID,
		RemoteAddr:  c.remoteAddr,
		ConnectedAt: c.connectedAt,
	}
}

// Send queues the frame for the write loop. A closed client returns an
// error; a full buffer drops the frame instead of blocking the caller,
// since delivery here is best effort by contract.
func (c *RuntimeClient) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.ctx.Done():
		return domain.ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	case c.out <- data:
		return nil
	default:
		return nil // buffer full, event dropped
	}
}

func (c *RuntimeClient) Close() {
	// The out channel is never closed; the write loop exits on ctx and the
	// channel is collected with the client. Closing it would race Send.
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *RuntimeClient) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			_ = c.ws.WriteMessage(data)
		}
	}
}
