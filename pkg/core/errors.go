package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error shape shared by the orchestrator components.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrConnect: the upstream transport could not be established or the
	// configuration handshake was rejected.
	ErrConnect ErrorType = "connect_error"
	// ErrProtocol: malformed or out-of-sequence event on either transport.
	// The offending event is dropped; the session continues.
	ErrProtocol ErrorType = "protocol_error"
	// ErrConnectionExhausted: the reconnect budget ran out. The session is
	// degraded and the client notified; no further automatic retries.
	ErrConnectionExhausted ErrorType = "connection_exhausted"
	// ErrUnknownTool and ErrInvalidArguments are model-side mistakes, always
	// converted to tool-result failures rather than session faults.
	ErrUnknownTool      ErrorType = "unknown_tool"
	ErrInvalidArguments ErrorType = "invalid_arguments"
	// ErrGateway: the catalog/order backend failed. Converted to a
	// tool-result failure carrying the underlying message.
	ErrGateway ErrorType = "gateway_failure"
)

// NewConnectError creates a connect error wrapping the transport failure.
func NewConnectError(message string, err error) *Error {
	return &Error{Type: ErrConnect, Message: message, Err: err}
}

// NewProtocolError creates a protocol error.
func NewProtocolError(message string) *Error {
	return &Error{Type: ErrProtocol, Message: message}
}

// NewConnectionExhaustedError creates a retries-exhausted error.
func NewConnectionExhaustedError(message string, err error) *Error {
	return &Error{Type: ErrConnectionExhausted, Message: message, Err: err}
}

// NewUnknownToolError creates an unknown-tool error.
func NewUnknownToolError(name string) *Error {
	return &Error{Type: ErrUnknownTool, Message: fmt.Sprintf("unknown tool: %s", name)}
}

// NewInvalidArgumentsError creates an invalid-arguments error.
func NewInvalidArgumentsError(message string) *Error {
	return &Error{Type: ErrInvalidArguments, Message: message}
}

// NewGatewayError creates a gateway failure wrapping the backend error.
func NewGatewayError(underlying error) *Error {
	return &Error{Type: ErrGateway, Message: underlying.Error(), Err: underlying}
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// SessionFatal reports whether err should tear down the session. Only
// transport exhaustion qualifies; everything else is local to one tool call
// or one event.
func SessionFatal(err error) bool {
	return IsType(err, ErrConnectionExhausted)
}
