package upstream

import (
	"context"

	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core"
)

// Listen reads inbound frames and delivers them on Events until the
// context is cancelled, the client is closed, or the reconnect budget runs
// out. On transport loss it redials with exponential backoff and re-sends
// the session configuration; the remote side starts a fresh session, so a
// successful reconnect also resets the retry budget. After exhaustion a
// DisconnectedEvent is emitted, the event stream closes, and the
// connection_exhausted error is returned.
func (c *Client) Listen(ctx context.Context) error {
	defer close(c.events)

	for {
		conn := c.currentConn()
		if conn == nil {
			return core.NewConnectError("listen requires a connected client", nil)
		}

		err := c.readFrames(ctx, conn)
		if ctx.Err() != nil || c.closing() {
			return nil
		}
		if err == nil {
			// Remote closed cleanly.
			return nil
		}

		c.logger.Warn("realtime transport lost, reconnecting", "error", err)
		if rcErr := c.reconnect(ctx); rcErr != nil {
			c.setState(StateDegraded)
			c.setErr(rcErr)
			c.emit(ctx, DisconnectedEvent{Err: rcErr})
			return rcErr
		}
	}
}

// readFrames drains one transport. A nil return means the remote closed
// normally; any other return is a transport fault.
func (c *Client) readFrames(ctx context.Context, conn Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if messageType != websocket.TextMessage {
			continue
		}

		event, decErr := decodeEvent(data)
		if decErr != nil {
			// Malformed frames are dropped; the session continues.
			c.logger.Warn("undecodable upstream frame dropped", "error", decErr)
			continue
		}
		if !c.emit(ctx, event) {
			return nil
		}
	}
}

func (c *Client) reconnect(ctx context.Context) error {
	backoff := retry.WithCappedDuration(c.cfg.BackoffCap, retry.NewExponential(c.cfg.BackoffInitial))
	backoff = retry.WithMaxRetries(c.cfg.MaxReconnects, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if c.closing() {
			return core.NewConnectError("client closed during reconnect", nil)
		}
		if err := c.Connect(ctx); err != nil {
			c.logger.Warn("reconnect attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		c.logger.Info("realtime transport reconnected", "attempt", attempt)
		return nil
	})
	if err != nil {
		return core.NewConnectionExhaustedError("reconnect attempts exhausted", err)
	}
	return nil
}

func (c *Client) emit(ctx context.Context, event Event) bool {
	select {
	case c.events <- event:
		return true
	case <-ctx.Done():
		return false
	case <-c.stop:
		return false
	}
}
