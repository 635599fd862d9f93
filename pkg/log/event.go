package log

import "time"

// Event represents a pipeline event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// DeviceID uniquely identifies the device instance (UUID).
	DeviceID string `cbor:"2,keyasint"`

	// DeviceName is the caller-assigned device name.
	DeviceName string `cbor:"3,keyasint,omitempty"`

	// Direction indicates data flow for frame events.
	Direction Direction `cbor:"4,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"5,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"6,keyasint"`

	// Locator is the device locator string (populated once a port is bound).
	Locator string `cbor:"7,keyasint,omitempty"`

	// Protocol is the bound protocol name (populated once resolved).
	Protocol string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Command *CommandEvent    `cbor:"9,keyasint,omitempty"`  // Device layer
	Frame   *FrameEvent      `cbor:"10,keyasint,omitempty"` // Transport layer
	Binding *BindingEvent    `cbor:"11,keyasint,omitempty"` // Port/protocol rebinds
	Error   *ErrorEventData  `cbor:"12,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which pipeline layer captured the event.
type Layer uint8

const (
	// LayerTransport is the I/O backend layer (raw bytes).
	LayerTransport Layer = 0
	// LayerProtocol is the codec layer (encode/decode).
	LayerProtocol Layer = 1
	// LayerDevice is the binding and command-pipeline layer.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates a command run.
	CategoryCommand Category = 0
	// CategoryFrame indicates raw bytes on the wire.
	CategoryFrame Category = 1
	// CategoryBinding indicates a port or protocol rebind.
	CategoryBinding Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryFrame:
		return "FRAME"
	case CategoryBinding:
		return "BINDING"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures one command run through the pipeline.
type CommandEvent struct {
	// Name is the command name as issued.
	Name string `cbor:"1,keyasint"`

	// Alias is the batch result key, when it differs from the name.
	Alias string `cbor:"2,keyasint,omitempty"`

	// ShowRaw indicates a raw (undecoded) response was requested.
	ShowRaw bool `cbor:"3,keyasint,omitempty"`

	// Fields is the number of entries in the decoded response.
	Fields int `cbor:"4,keyasint,omitempty"`

	// Duration is the wall-clock time of the full run.
	// Stored as nanoseconds.
	Duration *time.Duration `cbor:"5,keyasint,omitempty"`
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// BindingEntity indicates what binding changed.
type BindingEntity uint8

const (
	// BindingPort indicates the communications port binding changed.
	BindingPort BindingEntity = 0
	// BindingProtocol indicates the protocol codec binding changed.
	BindingProtocol BindingEntity = 1
)

// String returns the binding entity name.
func (b BindingEntity) String() string {
	switch b {
	case BindingPort:
		return "PORT"
	case BindingProtocol:
		return "PROTOCOL"
	default:
		return "UNKNOWN"
	}
}

// BindingEvent captures a port or protocol rebind.
type BindingEvent struct {
	// Entity being rebound.
	Entity BindingEntity `cbor:"1,keyasint"`

	// Old is the previous binding (may be empty).
	Old string `cbor:"2,keyasint,omitempty"`

	// New is the new binding (empty means explicitly unbound).
	New string `cbor:"3,keyasint,omitempty"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
