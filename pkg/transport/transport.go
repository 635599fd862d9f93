package transport

import (
	"context"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// Transport is the capability shared by every I/O backend.
// A backend additionally implements RawTransport or ProtocolAwareTransport.
type Transport interface {
	// Kind returns the backend's transport kind.
	Kind() Kind

	// String returns a printable description of the binding.
	String() string

	// Close releases any held resources. Backends that connect per
	// exchange treat Close as a no-op.
	Close() error
}

// RawTransport is a protocol-agnostic backend: it sends a fully-encoded
// payload and returns the raw reply bytes. The command definition is passed
// through for backends that synthesize replies (the loopback); hardware
// backends ignore it.
type RawTransport interface {
	Transport

	// SendAndReceive performs one blocking exchange.
	SendAndReceive(ctx context.Context, payload []byte, defn *protocol.CommandDefn) ([]byte, error)
}

// ProtocolAwareTransport is a backend that owns the full command cycle:
// encode, send, receive, assemble and decode. The device layer forwards the
// command name and codec and gets back a finished Response.
type ProtocolAwareTransport interface {
	Transport

	// RunCommand executes one command end to end.
	RunCommand(ctx context.Context, command string, showRaw bool, codec protocol.Codec) response.Response
}

// Config carries backend-specific settings. Each backend reads only the
// fields relevant to it.
type Config struct {
	// Baud is the serial line speed. Zero means DefaultBaud.
	Baud int

	// TCPPort is the ESP32 bridge port. Zero means DefaultESP32Port.
	TCPPort int

	// Timeout bounds one exchange. Zero means DefaultTimeout.
	Timeout time.Duration

	// Logger receives transport-layer events. Nil disables logging.
	Logger log.Logger
}

// Defaults for Config zero values.
const (
	DefaultBaud      = 2400
	DefaultESP32Port = 8899
	DefaultTimeout   = 5 * time.Second
)

func (c Config) baud() int {
	if c.Baud <= 0 {
		return DefaultBaud
	}
	return c.Baud
}

func (c Config) tcpPort() int {
	if c.TCPPort <= 0 {
		return DefaultESP32Port
	}
	return c.TCPPort
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c Config) logger() log.Logger {
	if c.Logger == nil {
		return log.NoopLogger{}
	}
	return c.Logger
}

// FromLocator constructs the backend matching the locator's classified kind.
// It never fails: constructors are lazy and do not touch hardware until the
// first exchange.
func FromLocator(locator string, cfg Config) Transport {
	switch Classify(locator) {
	case KindTest:
		return NewLoopback()
	case KindUSB:
		return NewHIDRaw(locator, cfg)
	case KindESP32:
		return NewESP32(locator, cfg)
	case KindBLE:
		return NewBLE(locator, cfg)
	default:
		return NewSerial(locator, cfg)
	}
}

// Compile-time capability checks.
var (
	_ RawTransport           = (*Loopback)(nil)
	_ RawTransport           = (*HIDRaw)(nil)
	_ RawTransport           = (*ESP32)(nil)
	_ RawTransport           = (*Serial)(nil)
	_ ProtocolAwareTransport = (*BLE)(nil)
)
