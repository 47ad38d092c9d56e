package sessions

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/session"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/relay"
)

// UpstreamSession is the full lifecycle surface of one realtime connection.
type UpstreamSession interface {
	relay.UpstreamClient
	Connect(ctx context.Context) error
	Listen(ctx context.Context) error
	Close() error
}

// Factory builds an unconnected upstream session for one session id.
type Factory func(sessionID string) UpstreamSession

// Session is the per-connection triple the registry hands out. Degraded
// sessions have no live upstream; their relay still answers client frames.
type Session struct {
	ID       string
	State    *session.State
	Client   UpstreamSession
	Relay    *relay.Relay
	Degraded bool
}

type entry struct {
	session *Session
	cancel  context.CancelFunc
	once    sync.Once
}

// Registry owns session lifecycles keyed by session id. REST cart handlers
// and the websocket relay share the same State through it.
type Registry struct {
	factory    Factory
	dispatcher relay.Dispatcher
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
	wg       sync.WaitGroup
}

func NewRegistry(factory Factory, dispatcher relay.Dispatcher, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		factory:    factory,
		dispatcher: dispatcher,
		logger:     logger,
		sessions:   make(map[string]*entry),
	}
}

// StateFor returns the session state for an id, creating a detached
// state-only session when none exists. REST cart operations use this so a
// cart built over REST is visible to a later websocket connection.
func (r *Registry) StateFor(sessionID string) *session.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sessionID]; ok {
		return e.session.State
	}
	e := &entry{session: &Session{
		ID:       sessionID,
		State:    session.New(sessionID),
		Degraded: true,
	}}
	r.sessions[sessionID] = e
	r.wg.Add(1)
	return e.session.State
}

// Get returns the live session for an id.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Count returns the number of tracked sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Open creates (or upgrades) the session triple and connects upstream. On
// connect failure the session is returned degraded rather than dropped:
// the caller keeps its client connection and tells the user the assistant
// is unavailable.
func (r *Registry) Open(ctx context.Context, sessionID string) (*Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	if ok && e.session.Relay != nil {
		r.mu.Unlock()
		return e.session, nil
	}
	if !ok {
		e = &entry{session: &Session{
			ID:    sessionID,
			State: session.New(sessionID),
		}}
		r.sessions[sessionID] = e
		r.wg.Add(1)
	}
	sess := e.session
	sess.Client = r.factory(sessionID)
	sess.Relay = relay.New(sessionID, sess.State, sess.Client, r.dispatcher, r.logger)

	sessCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	r.mu.Unlock()

	if err := sess.Client.Connect(ctx); err != nil {
		sess.Degraded = true
		r.logger.Error("upstream connect failed, session degraded", "session_id", sessionID, "error", err)
		return sess, err
	}
	sess.Degraded = false

	go func() {
		if err := sess.Client.Listen(sessCtx); err != nil {
			r.logger.Error("upstream listener terminated", "session_id", sessionID, "error", err)
		}
	}()
	go sess.Relay.RunUpstream(sessCtx)

	r.logger.Info("session opened", "session_id", sessionID)
	return sess, nil
}

// Close tears down a session. Idempotent; closing an unknown id is a no-op.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	e, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return
	}
	r.close(sessionID, e)
}

func (r *Registry) close(sessionID string, e *entry) {
	e.once.Do(func() {
		if e.cancel != nil {
			e.cancel()
		}
		if e.session.Relay != nil {
			e.session.Relay.Close()
		}
		if e.session.Client != nil {
			_ = e.session.Client.Close()
		}
		r.mu.Lock()
		if r.sessions[sessionID] == e {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
		r.wg.Done()
		r.logger.Info("session closed", "session_id", sessionID)
	})
}

// CancelAll closes every tracked session. Used on shutdown.
func (r *Registry) CancelAll() int {
	r.mu.Lock()
	entries := make(map[string]*entry, len(r.sessions))
	for id, e := range r.sessions {
		entries[id] = e
	}
	r.mu.Unlock()

	for id, e := range entries {
		r.close(id, e)
	}
	return len(entries)
}

// Wait blocks until every session is released or ctx expires. Returns true
// when the drain completed.
func (r *Registry) Wait(ctx context.Context) bool {
	if ctx == nil {
		r.wg.Wait()
		return true
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
