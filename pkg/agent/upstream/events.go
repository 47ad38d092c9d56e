package upstream

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event is an inbound frame from the realtime service, decoded into a
// closed set of variants. Consumers switch on the concrete type; anything
// the relay has no use for arrives as UnknownEvent.
type Event interface {
	upstreamEvent() string
}

// SpeechStartedEvent signals the user began speaking into the input buffer.
type SpeechStartedEvent struct{}

func (SpeechStartedEvent) upstreamEvent() string { return "input_audio_buffer.speech_started" }

// SpeechStoppedEvent signals the user stopped speaking.
type SpeechStoppedEvent struct{}

func (SpeechStoppedEvent) upstreamEvent() string { return "input_audio_buffer.speech_stopped" }

// TranscriptionCompletedEvent carries the final transcript of a user utterance.
type TranscriptionCompletedEvent struct {
	Transcript string
}

func (TranscriptionCompletedEvent) upstreamEvent() string {
	return "conversation.item.input_audio_transcription.completed"
}

// AssistantTranscriptEvent carries the completed transcript of an assistant
// audio response.
type AssistantTranscriptEvent struct {
	Transcript string
}

func (AssistantTranscriptEvent) upstreamEvent() string { return "response.audio_transcript.done" }

// AudioDeltaEvent carries one base64 chunk of assistant audio.
type AudioDeltaEvent struct {
	ResponseID string
	Delta      string
}

func (AudioDeltaEvent) upstreamEvent() string { return "response.audio.delta" }

// ToolCallEvent signals the model finished emitting arguments for a
// function call and is waiting on the result.
type ToolCallEvent struct {
	CallID    string
	Name      string
	Arguments json.RawMessage
}

func (ToolCallEvent) upstreamEvent() string { return "response.function_call_arguments.done" }

// ResponseDoneEvent marks the end of a model response. Status is
// "cancelled" when the response was interrupted.
type ResponseDoneEvent struct {
	ResponseID string
	Status     string
}

func (ResponseDoneEvent) upstreamEvent() string { return "response.done" }

// SessionCreatedEvent and SessionUpdatedEvent are lifecycle acks for the
// remote session configuration.
type SessionCreatedEvent struct{}

func (SessionCreatedEvent) upstreamEvent() string { return "session.created" }

type SessionUpdatedEvent struct{}

func (SessionUpdatedEvent) upstreamEvent() string { return "session.updated" }

// ErrorEvent is an error frame reported by the remote service.
type ErrorEvent struct {
	Code    string
	Message string
}

func (ErrorEvent) upstreamEvent() string { return "error" }

// Ignorable reports whether the error is an expected race (empty audio
// buffer, cancel of an already-finished response) rather than a fault.
func (e ErrorEvent) Ignorable() bool {
	if e.Code == "input_audio_buffer_commit_empty" || e.Code == "buffer_cleared" || e.Code == "response_cancelled" {
		return true
	}
	for _, fragment := range []string{
		"buffer too small",
		"Buffer is empty",
		"No speech detected",
		"Audio buffer is empty",
	} {
		if strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

// DisconnectedEvent is the terminal event emitted after the reconnect
// budget runs out. Err carries the exhaustion error.
type DisconnectedEvent struct {
	Err error
}

func (DisconnectedEvent) upstreamEvent() string { return "disconnected" }

// UnknownEvent wraps any frame type the relay does not consume.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (e UnknownEvent) upstreamEvent() string { return e.Type }

func decodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	typ := strings.TrimSpace(envelope.Type)
	if typ == "" {
		return nil, fmt.Errorf("event frame missing type")
	}

	switch typ {
	case "input_audio_buffer.speech_started":
		return SpeechStartedEvent{}, nil
	case "input_audio_buffer.speech_stopped":
		return SpeechStoppedEvent{}, nil
	case "conversation.item.input_audio_transcription.completed":
		var frame struct {
			Transcript string `json:"transcript"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode transcription frame: %w", err)
		}
		return TranscriptionCompletedEvent{Transcript: frame.Transcript}, nil
	case "response.audio_transcript.done":
		var frame struct {
			Transcript string `json:"transcript"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode transcript frame: %w", err)
		}
		return AssistantTranscriptEvent{Transcript: frame.Transcript}, nil
	case "response.audio.delta":
		var frame struct {
			ResponseID string `json:"response_id"`
			Delta      string `json:"delta"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode audio delta frame: %w", err)
		}
		return AudioDeltaEvent{ResponseID: frame.ResponseID, Delta: frame.Delta}, nil
	case "response.function_call_arguments.done":
		var frame struct {
			CallID    string `json:"call_id"`
			Name      string `json:"name"`
			Arguments string `json:"arguments"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode function call frame: %w", err)
		}
		return ToolCallEvent{
			CallID:    frame.CallID,
			Name:      frame.Name,
			Arguments: json.RawMessage(frame.Arguments),
		}, nil
	case "response.done":
		var frame struct {
			Response struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"response"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode response.done frame: %w", err)
		}
		return ResponseDoneEvent{ResponseID: frame.Response.ID, Status: frame.Response.Status}, nil
	case "response.cancelled":
		var frame struct {
			ResponseID string `json:"response_id"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode response.cancelled frame: %w", err)
		}
		return ResponseDoneEvent{ResponseID: frame.ResponseID, Status: "cancelled"}, nil
	case "session.created":
		return SessionCreatedEvent{}, nil
	case "session.updated":
		return SessionUpdatedEvent{}, nil
	case "error":
		var frame struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode error frame: %w", err)
		}
		return ErrorEvent{Code: frame.Error.Code, Message: frame.Error.Message}, nil
	default:
		return UnknownEvent{
			Type: typ,
			Raw:  append(json.RawMessage(nil), data...),
		}, nil
	}
}
