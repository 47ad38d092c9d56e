package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/tools"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/upstream"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/session"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/protocol"
)

// UpstreamClient is the slice of the realtime client the relay drives.
type UpstreamClient interface {
	SendAudio(pcm []byte) error
	CommitAudio() error
	SendText(text string) error
	CancelResponse() error
	SendToolResult(callID string, payload []byte) error
	Events() <-chan upstream.Event
}

// Dispatcher executes one tool call against the catalog gateway.
type Dispatcher interface {
	Dispatch(ctx context.Context, state *session.State, call tools.Call) tools.Result
}

// Relay bridges one client websocket and one upstream realtime session. It
// owns the outbound frame queues and the interruption bookkeeping; all
// session state mutation happens on the upstream event goroutine through
// the dispatcher.
type Relay struct {
	sessionID  string
	state      *session.State
	client     UpstreamClient
	dispatcher Dispatcher
	logger     *slog.Logger

	priority chan outboundFrame
	normal   chan outboundFrame

	cancelMu       sync.Mutex
	cancelled      map[string]struct{}
	activeResponse string

	closed    chan struct{}
	closeOnce sync.Once
}

// New builds a relay for one session.
func New(sessionID string, state *session.State, client UpstreamClient, dispatcher Dispatcher, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		sessionID:  sessionID,
		state:      state,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger.With("session_id", sessionID),
		priority:   make(chan outboundFrame, 32),
		normal:     make(chan outboundFrame, 256),
		cancelled:  make(map[string]struct{}),
		closed:     make(chan struct{}),
	}
}

// Close stops frame delivery. Idempotent.
func (r *Relay) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
}

func (r *Relay) isClosed() bool {
	select {
	case <-r.closed:
		return true
	default:
		return false
	}
}

// RunWriter pumps queued frames into the client websocket until ctx ends.
func (r *Relay) RunWriter(ctx context.Context, ws clientWriter, pingInterval, writeTimeout time.Duration) error {
	w := &frameWriter{
		ws:           ws,
		ctx:          ctx,
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		priority:     r.priority,
		normal:       r.normal,
		isCancelled:  r.responseCancelled,
	}
	return w.Run()
}

// HandleClientFrame applies one inbound client frame. A text message flips
// audio mode off; an audio chunk flips it on.
func (r *Relay) HandleClientFrame(ctx context.Context, frame protocol.ClientFrame) {
	switch frame.Type {
	case protocol.ClientText:
		r.state.SetAudioMode(false)
		r.state.AppendLog(session.SpeakerUser, frame.Content)
		r.send(protocol.UserMessage(frame.Content, protocol.ModeText))
		if err := r.client.SendText(frame.Content); err != nil {
			r.logger.Warn("text not forwarded upstream", "error", err)
			r.sendPriority(protocol.Error("message could not be delivered"))
		}
	case protocol.ClientAudio:
		r.state.SetAudioMode(true)
		pcm, err := base64.StdEncoding.DecodeString(frame.Audio)
		if err != nil {
			r.logger.Warn("audio chunk not base64, dropped")
			return
		}
		if err := r.client.SendAudio(pcm); err != nil {
			r.logger.Warn("audio not forwarded upstream", "error", err)
		}
	case protocol.ClientAudioCommit:
		if err := r.client.CommitAudio(); err != nil {
			r.logger.Warn("audio commit not forwarded upstream", "error", err)
		}
	case protocol.ClientVoiceModeOn:
		r.state.SetAudioMode(true)
	case protocol.ClientVoiceModeOff:
		r.state.SetAudioMode(false)
	case protocol.ClientPing:
		r.send(protocol.Pong())
	}
}

// RunUpstream consumes upstream events until the stream closes or ctx ends.
func (r *Relay) RunUpstream(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.closed:
			return
		case event, ok := <-r.client.Events():
			if !ok {
				return
			}
			r.handleUpstreamEvent(ctx, event)
		}
	}
}

func (r *Relay) handleUpstreamEvent(ctx context.Context, event upstream.Event) {
	switch e := event.(type) {
	case upstream.SpeechStartedEvent:
		// Interruption: tell the client to stop playback before any further
		// audio goes out, then cancel the in-flight response.
		r.sendPriority(protocol.UserSpeaking())
		r.markActiveCancelled()
		_ = r.client.CancelResponse()
	case upstream.SpeechStoppedEvent:
		// Server VAD will commit and respond on its own.
	case upstream.TranscriptionCompletedEvent:
		if e.Transcript == "" {
			return
		}
		r.state.AppendLog(session.SpeakerUser, e.Transcript)
		r.send(protocol.UserMessage(e.Transcript, protocol.ModeVoice))
	case upstream.AssistantTranscriptEvent:
		if e.Transcript == "" {
			return
		}
		mode := protocol.ModeText
		if r.state.AudioMode() {
			mode = protocol.ModeVoice
		}
		r.state.AppendLog(session.SpeakerAssistant, e.Transcript)
		r.send(protocol.AssistantMessage(e.Transcript, mode))
	case upstream.AudioDeltaEvent:
		r.forwardAudioDelta(e)
	case upstream.ToolCallEvent:
		r.handleToolCall(ctx, e)
	case upstream.ResponseDoneEvent:
		if e.Status == "cancelled" {
			r.markCancelled(e.ResponseID)
		}
		r.clearActive(e.ResponseID)
	case upstream.ErrorEvent:
		if e.Ignorable() {
			r.logger.Debug("ignorable upstream error", "code", e.Code, "message", e.Message)
			return
		}
		r.logger.Error("upstream error", "code", e.Code, "message", e.Message)
		r.sendPriority(protocol.Error(e.Message))
	case upstream.DisconnectedEvent:
		r.logger.Error("upstream connection exhausted", "error", e.Err)
		r.sendPriority(protocol.Error("assistant connection lost, please reconnect"))
	case upstream.SessionCreatedEvent, upstream.SessionUpdatedEvent:
		// Lifecycle acks.
	case upstream.UnknownEvent:
		r.logger.Debug("unhandled upstream event", "type", e.Type)
	}
}

// forwardAudioDelta forwards assistant audio only in audio mode and only
// for responses that were not cancelled by an interruption.
func (r *Relay) forwardAudioDelta(e upstream.AudioDeltaEvent) {
	if r.responseCancelled(e.ResponseID) {
		return
	}
	r.setActive(e.ResponseID)
	if !r.state.AudioMode() {
		return
	}
	frame := protocol.AudioDelta(e.Delta)
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	r.enqueue(r.normal, outboundFrame{payload: payload, isAudio: true, responseID: e.ResponseID})
}

func (r *Relay) handleToolCall(ctx context.Context, e upstream.ToolCallEvent) {
	call := tools.Call{CallID: e.CallID, Name: e.Name, Arguments: e.Arguments}
	result := r.dispatcher.Dispatch(ctx, r.state, call)

	if r.isClosed() {
		r.logger.Debug("tool result discarded after teardown", "tool", e.Name, "call_id", e.CallID)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("tool result not serializable", "tool", e.Name, "error", err)
		return
	}

	switch e.Name {
	case tools.NameSearchProducts:
		r.send(protocol.ToolResult(e.Name, payload))
	case tools.NameAddToCart:
		if result.Success {
			r.send(protocol.CartUpdated(r.state.Cart(), r.state.CartTotal()))
		}
	case tools.NamePlaceOrder:
		if result.Success {
			r.send(protocol.CartCleared())
		}
	}

	if err := r.client.SendToolResult(e.CallID, payload); err != nil {
		r.logger.Warn("tool result not delivered upstream", "tool", e.Name, "error", err)
	}
}

func (r *Relay) setActive(responseID string) {
	if responseID == "" {
		return
	}
	r.cancelMu.Lock()
	r.activeResponse = responseID
	r.cancelMu.Unlock()
}

func (r *Relay) clearActive(responseID string) {
	r.cancelMu.Lock()
	if r.activeResponse == responseID {
		r.activeResponse = ""
	}
	r.cancelMu.Unlock()
}

func (r *Relay) markActiveCancelled() {
	r.cancelMu.Lock()
	if r.activeResponse != "" {
		r.cancelled[r.activeResponse] = struct{}{}
	}
	r.cancelMu.Unlock()
}

func (r *Relay) markCancelled(responseID string) {
	if responseID == "" {
		return
	}
	r.cancelMu.Lock()
	r.cancelled[responseID] = struct{}{}
	r.cancelMu.Unlock()
}

func (r *Relay) responseCancelled(responseID string) bool {
	if responseID == "" {
		return false
	}
	r.cancelMu.Lock()
	defer r.cancelMu.Unlock()
	_, ok := r.cancelled[responseID]
	return ok
}

// SendSystem queues a system notice for the client.
func (r *Relay) SendSystem(message string) {
	r.send(protocol.System(message))
}

// SendError queues an error notice on the priority queue.
func (r *Relay) SendError(message string) {
	r.sendPriority(protocol.Error(message))
}

func (r *Relay) send(frame protocol.ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	r.enqueue(r.normal, outboundFrame{payload: payload})
}

func (r *Relay) sendPriority(frame protocol.ServerFrame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	r.enqueue(r.priority, outboundFrame{payload: payload})
}

func (r *Relay) enqueue(ch chan outboundFrame, frame outboundFrame) {
	select {
	case <-r.closed:
	case ch <- frame:
	default:
		// Slow consumer; drop rather than stall the event loop.
		r.logger.Warn("outbound queue full, frame dropped")
	}
}
