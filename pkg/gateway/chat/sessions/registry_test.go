package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/tools"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/agent/upstream"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/session"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

type fakeSession struct {
	connectErr error
	connects   int
	closed     bool
	events     chan upstream.Event
}

func newFakeSession(connectErr error) *fakeSession {
	return &fakeSession{connectErr: connectErr, events: make(chan upstream.Event)}
}

func (f *fakeSession) SendAudio([]byte) error             { return nil }
func (f *fakeSession) CommitAudio() error                 { return nil }
func (f *fakeSession) SendText(string) error              { return nil }
func (f *fakeSession) CancelResponse() error              { return nil }
func (f *fakeSession) SendToolResult(string, []byte) error { return nil }
func (f *fakeSession) Events() <-chan upstream.Event      { return f.events }

func (f *fakeSession) Connect(context.Context) error {
	f.connects++
	return f.connectErr
}

func (f *fakeSession) Listen(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, *session.State, tools.Call) tools.Result {
	return tools.Result{Success: true}
}

func newTestRegistry(connectErr error) (*Registry, *fakeSession) {
	fs := newFakeSession(connectErr)
	factory := func(string) UpstreamSession { return fs }
	return NewRegistry(factory, nopDispatcher{}, nil), fs
}

func TestOpenConnectsAndTracks(t *testing.T) {
	r, fs := newTestRegistry(nil)

	sess, err := r.Open(context.Background(), "s1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sess.Degraded || sess.Relay == nil || sess.State == nil {
		t.Fatalf("session=%+v", sess)
	}
	if fs.connects != 1 {
		t.Fatalf("connects=%d", fs.connects)
	}
	if r.Count() != 1 {
		t.Fatalf("count=%d", r.Count())
	}
	if got, ok := r.Get("s1"); !ok || got != sess {
		t.Fatalf("get returned %+v, %v", got, ok)
	}
}

func TestOpenTwiceReturnsSameSession(t *testing.T) {
	r, fs := newTestRegistry(nil)

	first, _ := r.Open(context.Background(), "s1")
	second, _ := r.Open(context.Background(), "s1")
	if first != second {
		t.Fatalf("second open created a new session")
	}
	if fs.connects != 1 {
		t.Fatalf("connects=%d", fs.connects)
	}
}

func TestOpenDegradesOnConnectFailure(t *testing.T) {
	r, _ := newTestRegistry(errors.New("connection refused"))

	sess, err := r.Open(context.Background(), "s1")
	if err == nil {
		t.Fatalf("connect failure not reported")
	}
	if sess == nil || !sess.Degraded {
		t.Fatalf("session=%+v", sess)
	}
	// A degraded session still has a relay so the client connection can be
	// told the assistant is unavailable.
	if sess.Relay == nil {
		t.Fatalf("degraded session has no relay")
	}
	if r.Count() != 1 {
		t.Fatalf("count=%d", r.Count())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r, fs := newTestRegistry(nil)

	r.Open(context.Background(), "s1")
	r.Close("s1")
	if !fs.closed {
		t.Fatalf("upstream not closed")
	}
	if r.Count() != 0 {
		t.Fatalf("count=%d", r.Count())
	}

	r.Close("s1")
	r.Close("never-opened")
	if r.Count() != 0 {
		t.Fatalf("count=%d after repeat close", r.Count())
	}
}

func TestStateSharedBetweenRESTAndWebsocket(t *testing.T) {
	r, _ := newTestRegistry(nil)

	state := r.StateFor("s1")
	state.AddToCart(types.Product{ID: "p1", Name: "Belt", Price: 25}, 1)

	sess, err := r.Open(context.Background(), "s1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sess.State != state {
		t.Fatalf("open created a fresh state, cart lost")
	}
	if sess.State.CartTotal() != 25 {
		t.Fatalf("total=%v", sess.State.CartTotal())
	}
}

func TestCancelAllAndWaitDrain(t *testing.T) {
	r, _ := newTestRegistry(nil)
	r.Open(context.Background(), "s1")
	r.Open(context.Background(), "s2")
	r.StateFor("s3")

	if n := r.CancelAll(); n != 3 {
		t.Fatalf("cancelled=%d", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !r.Wait(ctx) {
		t.Fatalf("drain did not complete")
	}
	if r.Count() != 0 {
		t.Fatalf("count=%d", r.Count())
	}
}
