package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hakazmi/realtime-voice-E-store-agent/pkg/core/types"
)

// Client frame types.
const (
	ClientText         = "text"
	ClientAudio        = "audio"
	ClientAudioCommit  = "audio_commit"
	ClientVoiceModeOn  = "voice_mode_on"
	ClientVoiceModeOff = "voice_mode_off"
	ClientPing         = "ping"
)

// Server frame types.
const (
	ServerSystem           = "system"
	ServerUserMessage      = "user_message"
	ServerAssistantMessage = "assistant_message"
	ServerAudioDelta       = "audio_delta"
	ServerUserSpeaking     = "user_speaking"
	ServerToolResult       = "tool_result"
	ServerCartUpdated      = "cart_updated"
	ServerCartCleared      = "cart_cleared"
	ServerError            = "error"
	ServerPong             = "pong"
)

// Message modes on user/assistant message frames.
const (
	ModeText  = "text"
	ModeVoice = "voice"
)

// ClientFrame is one inbound frame from the browser client.
type ClientFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

// DecodeClientFrame parses and validates one inbound frame.
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ClientFrame{}, fmt.Errorf("decode client frame: %w", err)
	}
	frame.Type = strings.TrimSpace(frame.Type)
	switch frame.Type {
	case ClientText:
		if strings.TrimSpace(frame.Content) == "" {
			return ClientFrame{}, fmt.Errorf("text frame requires content")
		}
	case ClientAudio:
		if frame.Audio == "" {
			return ClientFrame{}, fmt.Errorf("audio frame requires audio payload")
		}
	case ClientAudioCommit, ClientVoiceModeOn, ClientVoiceModeOff, ClientPing:
	case "":
		return ClientFrame{}, fmt.Errorf("client frame missing type")
	default:
		return ClientFrame{}, fmt.Errorf("unknown client frame type %q", frame.Type)
	}
	return frame, nil
}

// ServerFrame is one outbound frame to the browser client. Every frame
// carries an ISO-8601 timestamp.
type ServerFrame struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Message   string          `json:"message,omitempty"`
	Content   string          `json:"content,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Audio     string          `json:"audio,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Cart      types.Cart      `json:"cart,omitempty"`
	CartTotal float64         `json:"cart_total,omitempty"`
}

func stamped(frame ServerFrame) ServerFrame {
	frame.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return frame
}

func System(message string) ServerFrame {
	return stamped(ServerFrame{Type: ServerSystem, Message: message})
}

func UserMessage(content, mode string) ServerFrame {
	return stamped(ServerFrame{Type: ServerUserMessage, Content: content, Mode: mode})
}

func AssistantMessage(content, mode string) ServerFrame {
	return stamped(ServerFrame{Type: ServerAssistantMessage, Content: content, Mode: mode})
}

func AudioDelta(audio string) ServerFrame {
	return stamped(ServerFrame{Type: ServerAudioDelta, Audio: audio})
}

func UserSpeaking() ServerFrame {
	return stamped(ServerFrame{Type: ServerUserSpeaking})
}

func ToolResult(tool string, result json.RawMessage) ServerFrame {
	return stamped(ServerFrame{Type: ServerToolResult, Tool: tool, Result: result})
}

func CartUpdated(cart types.Cart, total float64) ServerFrame {
	if cart == nil {
		cart = types.Cart{}
	}
	return stamped(ServerFrame{Type: ServerCartUpdated, Cart: cart, CartTotal: total})
}

func CartCleared() ServerFrame {
	return stamped(ServerFrame{Type: ServerCartCleared})
}

func Error(message string) ServerFrame {
	return stamped(ServerFrame{Type: ServerError, Message: message})
}

func Pong() ServerFrame {
	return stamped(ServerFrame{Type: ServerPong})
}
