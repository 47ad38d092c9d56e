package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/tools"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core"
)

type readResult struct {
	data []byte
	err  error
}

type fakeConn struct {
	mu        sync.Mutex
	writes    [][]byte
	reads     chan readResult
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{reads: make(chan readResult, 16)}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	r, ok := <-f.reads
	if !ok {
		return 0, nil, errors.New("use of closed connection")
	}
	if r.err != nil {
		return 0, nil, r.err
	}
	return 1, r.data, nil
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.reads) })
	return nil
}

func (f *fakeConn) push(frame string) {
	f.reads <- readResult{data: []byte(frame)}
}

func (f *fakeConn) fail(err error) {
	f.reads <- readResult{err: err}
}

func (f *fakeConn) written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.writes...)
}

// fakeDialer plays a script: each attempt either yields the next conn or
// the next error.
type fakeDialer struct {
	mu       sync.Mutex
	script   []any // *fakeConn or error
	attempts int
}

func (d *fakeDialer) DialContext(context.Context, string, http.Header) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.attempts >= len(d.script) {
		return nil, errors.New("dial script exhausted")
	}
	step := d.script[d.attempts]
	d.attempts++
	if conn, ok := step.(*fakeConn); ok {
		return conn, nil
	}
	return nil, step.(error)
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts
}

func testConfig(dialer Dialer) Config {
	return Config{
		APIKey:            "sk-test",
		Tools:             tools.Catalog(),
		Dialer:            dialer,
		KeepaliveInterval: time.Hour,
		BackoffInitial:    time.Millisecond,
		BackoffCap:        5 * time.Millisecond,
	}
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case event, ok := <-events:
		if !ok {
			t.Fatalf("event stream closed early")
		}
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
		return nil
	}
}

func TestConnectSendsSessionConfiguration(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{script: []any{conn}}
	c := NewClient(testConfig(dialer))
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if c.State() != StateConnected {
		t.Fatalf("state=%v", c.State())
	}

	writes := conn.written()
	if len(writes) != 1 {
		t.Fatalf("writes=%d, want the configuration frame", len(writes))
	}
	var frame struct {
		Type    string `json:"type"`
		Session struct {
			Modalities    []string       `json:"modalities"`
			Voice         string         `json:"voice"`
			InputFormat   string         `json:"input_audio_format"`
			TurnDetection map[string]any `json:"turn_detection"`
			Tools         []tools.Schema `json:"tools"`
			ToolChoice    string         `json:"tool_choice"`
			MaxTokens     int            `json:"max_response_output_tokens"`
		} `json:"session"`
	}
	if err := json.Unmarshal(writes[0], &frame); err != nil {
		t.Fatalf("decode config frame: %v", err)
	}
	if frame.Type != "session.update" {
		t.Fatalf("type=%q", frame.Type)
	}
	if len(frame.Session.Modalities) != 2 || frame.Session.Voice != DefaultVoice {
		t.Fatalf("session=%+v", frame.Session)
	}
	if frame.Session.TurnDetection["type"] != "server_vad" {
		t.Fatalf("turn_detection=%v", frame.Session.TurnDetection)
	}
	if len(frame.Session.Tools) != 4 || frame.Session.ToolChoice != "auto" {
		t.Fatalf("tools=%d tool_choice=%q", len(frame.Session.Tools), frame.Session.ToolChoice)
	}
	if frame.Session.MaxTokens != 500 {
		t.Fatalf("max tokens=%d", frame.Session.MaxTokens)
	}
}

func TestConnectFailureIsConnectError(t *testing.T) {
	dialer := &fakeDialer{script: []any{errors.New("connection refused")}}
	c := NewClient(testConfig(dialer))
	defer c.Close()

	err := c.Connect(context.Background())
	if !core.IsType(err, core.ErrConnect) {
		t.Fatalf("err=%v", err)
	}
	if c.State() != StateDisconnected {
		t.Fatalf("state=%v", c.State())
	}
}

func TestListenReconnectsAfterTransportLoss(t *testing.T) {
	first := newFakeConn()
	second := newFakeConn()
	dialer := &fakeDialer{script: []any{
		first,
		errors.New("connection refused"),
		errors.New("connection refused"),
		second,
	}}
	c := NewClient(testConfig(dialer))
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	listenErr := make(chan error, 1)
	go func() { listenErr <- c.Listen(context.Background()) }()

	first.push(`{"type":"input_audio_buffer.speech_started"}`)
	if _, ok := waitEvent(t, c.Events()).(SpeechStartedEvent); !ok {
		t.Fatalf("first event not speech_started")
	}

	first.fail(errors.New("connection reset"))

	// The stream resumes on the new transport without caller intervention.
	second.push(`{"type":"session.created"}`)
	second.push(`{"type":"input_audio_buffer.speech_stopped"}`)
	if _, ok := waitEvent(t, c.Events()).(SessionCreatedEvent); !ok {
		t.Fatalf("post-reconnect stream missing session.created")
	}
	if _, ok := waitEvent(t, c.Events()).(SpeechStoppedEvent); !ok {
		t.Fatalf("post-reconnect stream missing speech_stopped")
	}
	if c.State() != StateConnected {
		t.Fatalf("state=%v", c.State())
	}
	if got := dialer.dialCount(); got != 4 {
		t.Fatalf("dial attempts=%d, want 4", got)
	}

	// New transport got its own configuration frame.
	if len(second.written()) == 0 {
		t.Fatalf("reconnected transport never configured")
	}

	c.Close()
	select {
	case err := <-listenErr:
		if err != nil {
			t.Fatalf("listen returned %v after close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("listen did not return after close")
	}
}

func TestListenExhaustsRetriesAndDegrades(t *testing.T) {
	first := newFakeConn()
	dialer := &fakeDialer{script: []any{first}}
	c := NewClient(testConfig(dialer))
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	listenErr := make(chan error, 1)
	go func() { listenErr <- c.Listen(context.Background()) }()

	first.fail(errors.New("connection reset"))

	var terminal DisconnectedEvent
	for {
		event, ok := <-c.Events()
		if !ok {
			t.Fatalf("stream closed without terminal disconnect event")
		}
		if d, isTerminal := event.(DisconnectedEvent); isTerminal {
			terminal = d
			break
		}
	}
	if !core.IsType(terminal.Err, core.ErrConnectionExhausted) {
		t.Fatalf("terminal err=%v", terminal.Err)
	}

	select {
	case err := <-listenErr:
		if !core.IsType(err, core.ErrConnectionExhausted) {
			t.Fatalf("listen err=%v", err)
		}
		if !core.SessionFatal(err) {
			t.Fatalf("exhaustion not session fatal")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("listen did not terminate")
	}
	if c.State() != StateDegraded {
		t.Fatalf("state=%v", c.State())
	}
	if !core.IsType(c.Err(), core.ErrConnectionExhausted) {
		t.Fatalf("client err=%v", c.Err())
	}
}

func TestSendAudioAfterCloseIsNoOp(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{script: []any{conn}}
	c := NewClient(testConfig(dialer))

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	c.Close()

	if err := c.SendAudio([]byte{1, 2, 3}); err != nil {
		t.Fatalf("send audio after close: %v", err)
	}
	if err := c.CommitAudio(); err != nil {
		t.Fatalf("commit after close: %v", err)
	}
	if err := c.CancelResponse(); err != nil {
		t.Fatalf("cancel after close: %v", err)
	}
}

func TestSendToolResultRequiresCallID(t *testing.T) {
	c := NewClient(testConfig(&fakeDialer{}))
	defer c.Close()

	err := c.SendToolResult("  ", []byte(`{"success":true}`))
	if !core.IsType(err, core.ErrProtocol) {
		t.Fatalf("err=%v", err)
	}
}

func TestSendTextWritesMessageAndResponseCreate(t *testing.T) {
	conn := newFakeConn()
	dialer := &fakeDialer{script: []any{conn}}
	c := NewClient(testConfig(dialer))
	defer c.Close()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := c.SendText("show me belts"); err != nil {
		t.Fatalf("send text: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		writes := conn.written()
		if len(writes) >= 3 {
			var item struct {
				Type string `json:"type"`
				Item struct {
					Role    string `json:"role"`
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"item"`
			}
			if err := json.Unmarshal(writes[1], &item); err != nil {
				t.Fatalf("decode item frame: %v", err)
			}
			if item.Type != "conversation.item.create" || item.Item.Role != "user" {
				t.Fatalf("item frame=%s", writes[1])
			}
			if item.Item.Content[0].Text != "show me belts" {
				t.Fatalf("text=%q", item.Item.Content[0].Text)
			}
			var create struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(writes[2], &create); err != nil {
				t.Fatalf("decode response.create: %v", err)
			}
			if create.Type != "response.create" {
				t.Fatalf("frame=%s", writes[2])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("writer drained %d frames, want 3", len(writes))
		}
		time.Sleep(5 * time.Millisecond)
	}
}
