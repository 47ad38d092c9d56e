package upstream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/tools"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core"
)

const (
	DefaultURL   = "wss://api.openai.com/v1/realtime"
	DefaultModel = "gpt-4o-realtime-preview-2024-10-01"
	DefaultVoice = "alloy"

	defaultConnectTimeout    = 15 * time.Second
	defaultKeepaliveInterval = 15 * time.Second
	defaultMaxReconnects     = 3
	defaultBackoffInitial    = 1 * time.Second
	defaultBackoffCap        = 10 * time.Second
)

// ConnState is the connection lifecycle state of a Client.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateDegraded
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDegraded:
		return "degraded"
	default:
		return "disconnected"
	}
}

// Conn is the transport surface the client needs. *websocket.Conn
// satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a Conn. Injectable so tests can substitute a fake transport.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, header http.Header) (Conn, error)
}

type wsDialer struct{}

func (wsDialer) DialContext(ctx context.Context, urlStr string, header http.Header) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, urlStr, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}

// Config configures a realtime Client.
type Config struct {
	APIKey       string
	Model        string
	URL          string
	Instructions string
	Voice        string
	Tools        []tools.Schema

	KeepaliveInterval time.Duration
	MaxReconnects     uint64
	BackoffInitial    time.Duration
	BackoffCap        time.Duration

	Dialer Dialer
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.KeepaliveInterval <= 0 {
		c.KeepaliveInterval = defaultKeepaliveInterval
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = defaultMaxReconnects
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = defaultBackoffInitial
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = defaultBackoffCap
	}
	if c.Dialer == nil {
		c.Dialer = wsDialer{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is a duplex session against the realtime voice service. One writer
// goroutine drains the outbound queue, the Listen goroutine reads inbound
// frames, and a keepalive ticker pings the remote session. All three observe
// transport close before a reconnect swaps in a new Conn.
type Client struct {
	cfg    Config
	logger *slog.Logger

	events chan Event

	mu      sync.Mutex
	conn    Conn
	state   ConnState
	healthy bool

	outbound  chan []byte
	stop      chan struct{}
	loopsOnce sync.Once
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

// NewClient builds a client; it does not dial until Connect.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:      cfg,
		logger:   cfg.Logger,
		events:   make(chan Event, 256),
		outbound: make(chan []byte, 64),
		stop:     make(chan struct{}),
		state:    StateDisconnected,
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Healthy reports whether the last write (including keepalives) succeeded.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Events yields decoded upstream events. Closed when Listen returns.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Err returns the terminal error recorded before the event stream closed.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Client) setErr(err error) {
	if err == nil {
		return
	}
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Connect dials the realtime endpoint and sends the session configuration.
// Safe to call again after transport loss; the previous Conn is closed.
func (c *Client) Connect(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return core.NewConnectError("realtime api key is not set", nil)
	}
	c.setState(StateConnecting)

	endpoint := c.cfg.URL + "?model=" + url.QueryEscape(c.cfg.Model)
	header := make(http.Header)
	header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, err := c.cfg.Dialer.DialContext(dialCtx, endpoint, header)
	if err != nil {
		c.setState(StateDisconnected)
		return core.NewConnectError("dial realtime transport", err)
	}

	frame, err := json.Marshal(c.configFrame())
	if err != nil {
		_ = conn.Close()
		c.setState(StateDisconnected)
		return core.NewConnectError("encode session configuration", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		_ = conn.Close()
		c.setState(StateDisconnected)
		return core.NewConnectError("send session configuration", err)
	}

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.healthy = true
	c.state = StateConnected
	c.mu.Unlock()

	c.loopsOnce.Do(func() {
		go c.writeLoop()
		go c.keepaliveLoop()
	})
	c.logger.Info("realtime session configured", "model", c.cfg.Model, "voice", c.cfg.Voice)
	return nil
}

// configFrame is re-sent on every new transport; a reconnect is a fresh
// remote session.
func (c *Client) configFrame() map[string]any {
	return map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"modalities":          []string{"text", "audio"},
			"instructions":        c.cfg.Instructions,
			"voice":               c.cfg.Voice,
			"input_audio_format":  "pcm16",
			"output_audio_format": "pcm16",
			"input_audio_transcription": map[string]any{
				"model": "whisper-1",
			},
			"turn_detection": map[string]any{
				"type":                "server_vad",
				"threshold":           0.5,
				"prefix_padding_ms":   300,
				"silence_duration_ms": 700,
				"create_response":     true,
			},
			"tools":                      c.cfg.Tools,
			"tool_choice":                "auto",
			"temperature":                0.7,
			"max_response_output_tokens": 500,
		},
	}
}

// SendAudio appends an audio chunk to the remote input buffer. Audio
// legitimately races with teardown, so a closed transport is a logged no-op.
func (c *Client) SendAudio(pcm []byte) error {
	if !c.transportOpen() {
		c.logger.Warn("dropping audio chunk, transport closed")
		return nil
	}
	return c.enqueue(map[string]any{
		"type":  "input_audio_buffer.append",
		"audio": base64.StdEncoding.EncodeToString(pcm),
	})
}

// CommitAudio signals end-of-utterance.
func (c *Client) CommitAudio() error {
	if !c.transportOpen() {
		c.logger.Warn("dropping audio commit, transport closed")
		return nil
	}
	return c.enqueue(map[string]any{"type": "input_audio_buffer.commit"})
}

// SendText creates a user message turn and requests a response.
func (c *Client) SendText(text string) error {
	if !c.transportOpen() {
		c.logger.Warn("dropping text message, transport closed")
		return nil
	}
	item := map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type": "message",
			"role": "user",
			"content": []map[string]any{
				{"type": "input_text", "text": text},
			},
		},
	}
	if err := c.enqueue(item); err != nil {
		return err
	}
	return c.enqueue(map[string]any{"type": "response.create"})
}

// CancelResponse requests cancellation of any in-flight response. The race
// against an already-finished response is expected, so failures are logged
// and never returned.
func (c *Client) CancelResponse() error {
	if !c.transportOpen() {
		return nil
	}
	if err := c.enqueue(map[string]any{"type": "response.cancel"}); err != nil {
		c.logger.Debug("response cancel not sent", "error", err)
	}
	return nil
}

// SendToolResult delivers a tool result keyed by callID and requests
// response continuation.
func (c *Client) SendToolResult(callID string, payload []byte) error {
	if strings.TrimSpace(callID) == "" {
		return core.NewProtocolError("tool result requires a call_id")
	}
	if !c.transportOpen() {
		c.logger.Warn("dropping tool result, transport closed", "call_id", callID)
		return nil
	}
	item := map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": callID,
			"output":  string(payload),
		},
	}
	if err := c.enqueue(item); err != nil {
		return err
	}
	return c.enqueue(map[string]any{"type": "response.create"})
}

func (c *Client) transportOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.state == StateConnected
}

func (c *Client) enqueue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return core.NewProtocolError(fmt.Sprintf("encode outbound frame: %v", err))
	}
	select {
	case c.outbound <- data:
		return nil
	case <-c.stop:
		return core.NewProtocolError("client closed")
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.stop:
			return
		case frame := <-c.outbound:
			if err := c.writeFrame(frame); err != nil {
				c.markUnhealthy()
				c.logger.Warn("outbound frame not written", "error", err)
			}
		}
	}
}

func (c *Client) writeFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("transport closed")
	}
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) markUnhealthy() {
	c.mu.Lock()
	c.healthy = false
	c.mu.Unlock()
}

// keepaliveLoop sends an inert session.update so idle sessions survive
// upstream idle timeouts. A send failure only flags the connection
// unhealthy; the read loop decides when to reconnect.
func (c *Client) keepaliveLoop() {
	ticker := time.NewTicker(c.cfg.KeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if c.State() != StateConnected {
				continue
			}
			frame, _ := json.Marshal(map[string]any{
				"type":    "session.update",
				"session": map[string]any{},
			})
			if err := c.writeFrame(frame); err != nil {
				c.markUnhealthy()
				c.logger.Warn("keepalive not written", "error", err)
			}
		}
	}
}

// Close tears down the transport and stops the background loops. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.state = StateDisconnected
		c.mu.Unlock()
	})
	return nil
}

func (c *Client) closing() bool {
	select {
	case <-c.stop:
		return true
	default:
		return false
	}
}

func (c *Client) currentConn() Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}
