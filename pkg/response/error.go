package response

import "fmt"

// ErrorKind classifies an expected command-pipeline failure.
type ErrorKind uint8

const (
	// KindNoProtocol indicates no protocol codec is bound to the device.
	KindNoProtocol ErrorKind = iota

	// KindNoTransport indicates no communications port is bound.
	KindNoTransport

	// KindBadCommand indicates a malformed command or batch entry.
	KindBadCommand

	// KindResolution indicates a protocol name could not be resolved.
	KindResolution

	// KindTransport indicates the underlying I/O failed.
	KindTransport

	// KindDecode indicates the protocol codec rejected the raw response.
	KindDecode
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNoProtocol:
		return "NO_PROTOCOL"
	case KindNoTransport:
		return "NO_TRANSPORT"
	case KindBadCommand:
		return "BAD_COMMAND"
	case KindResolution:
		return "RESOLUTION"
	case KindTransport:
		return "TRANSPORT"
	case KindDecode:
		return "DECODE"
	default:
		return "UNKNOWN"
	}
}

// CommandError is a typed, expected failure of the command pipeline.
// It carries the kind for programmatic handling and the message/detail
// pair that forms the ERROR entry of a Response.
type CommandError struct {
	Kind    ErrorKind
	Message string
	Detail  string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s %s", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a CommandError with a formatted message and no detail.
func Errorf(kind ErrorKind, format string, args ...any) *CommandError {
	return &CommandError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewError converts a CommandError into the uniform Response shape:
// a single entry under ErrorKey holding [message, detail].
func NewError(err *CommandError) Response {
	return Response{ErrorKey: Field{Value: err.Message, Unit: err.Detail}}
}

// Compile-time check: CommandError is an error.
var _ error = (*CommandError)(nil)
