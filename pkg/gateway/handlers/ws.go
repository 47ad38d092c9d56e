package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/protocol"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/chat/sessions"
	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/gateway/config"
)

// ChatHandler handles /ws/chat/{session_id} websocket sessions.
type ChatHandler struct {
	Config   config.Config
	Registry *sessions.Registry
	Logger   *slog.Logger
}

func (h ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.PathValue("session_id"))
	if sessionID == "" {
		writeDetail(w, http.StatusBadRequest, "session id is required")
		return
	}
	if !h.originAllowed(r) {
		writeDetail(w, http.StatusForbidden, "origin is not allowed")
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sess, openErr := h.Registry.Open(r.Context(), sessionID)
	defer h.Registry.Close(sessionID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		if err := sess.Relay.RunWriter(ctx, conn, h.Config.WSPingInterval, h.Config.WSWriteTimeout); err != nil {
			logger.Warn("client writer stopped", "session_id", sessionID, "error", err)
		}
	}()

	// Connect failures degrade the session instead of dropping the client:
	// the socket stays open so the shopper sees what happened.
	if openErr != nil {
		sess.Relay.SendError("assistant is unavailable right now, please try again shortly")
	} else {
		sess.Relay.SendSystem("Connected to the store assistant. Say something or start typing.")
	}

	h.readLoop(ctx, conn, sess, sessionID, logger)

	cancel()
	select {
	case <-writerDone:
	case <-time.After(h.Config.WSWriteTimeout + time.Second):
	}
}

func (h ChatHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *sessions.Session, sessionID string, logger *slog.Logger) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("client read ended", "session_id", sessionID, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			sess.Relay.SendError("frames must be JSON text messages")
			continue
		}

		frame, err := protocol.DecodeClientFrame(data)
		if err != nil {
			sess.Relay.SendError(err.Error())
			continue
		}
		sess.Relay.HandleClientFrame(ctx, frame)
	}
}

func (h ChatHandler) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if len(h.Config.CORSAllowedOrigins) == 0 {
		return true
	}
	if _, ok := h.Config.CORSAllowedOrigins["*"]; ok {
		return true
	}
	_, ok := h.Config.CORSAllowedOrigins[origin]
	return ok
}
