package device

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
	"github.com/powermon-protocol/powermon-go/pkg/transport"
)

// Config holds the construction inputs for a Device.
type Config struct {
	// Name is the caller-assigned device name. Immutable after construction.
	Name string

	// Port is the device locator (path, MAC address, bridge host).
	Port string

	// Protocol is the protocol name to resolve. Empty means no protocol.
	Protocol string

	// Baud is the serial line speed. Zero means the transport default.
	Baud int

	// TCPPort is the ESP32 bridge port. Zero means the transport default.
	TCPPort int

	// Timeout bounds one transport exchange. Zero means the transport default.
	Timeout time.Duration

	// Logger receives pipeline events. Nil disables logging.
	Logger log.Logger
}

// Device is one addressable piece of power hardware: at most one bound
// transport and one bound protocol codec, plus an immutable identity.
type Device struct {
	name   string
	id     string
	logger log.Logger

	locator  string
	baud     int
	tcpPort  int
	timeout  time.Duration
	codec    protocol.Codec
	port     transport.Transport
	protoErr error
}

// New constructs a Device and attempts both bindings. Construction always
// succeeds: a locator that classifies to an unreachable backend or a
// protocol name that fails to resolve leaves the corresponding binding
// empty, and the first command run reports it in-band.
func New(cfg Config) *Device {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}

	d := &Device{
		name:    cfg.Name,
		id:      uuid.New().String(),
		logger:  logger,
		baud:    cfg.Baud,
		tcpPort: cfg.TCPPort,
		timeout: cfg.Timeout,
	}

	if cfg.Port != "" {
		d.SetPort(cfg.Port)
	}
	// Resolution failure is recorded by SetProtocol; the device stays usable.
	_ = d.SetProtocol(cfg.Protocol)

	return d
}

// Name returns the caller-assigned device name.
func (d *Device) Name() string { return d.name }

// ID returns the unique instance identifier (UUID).
func (d *Device) ID() string { return d.id }

// Protocol returns the bound codec, or nil.
func (d *Device) Protocol() protocol.Codec { return d.codec }

// Port returns the bound transport, or nil.
func (d *Device) Port() transport.Transport { return d.port }

// String returns a printable representation of the device and its bindings.
func (d *Device) String() string {
	port := "none"
	if d.port != nil {
		port = d.port.String()
	}
	proto := "none"
	if d.codec != nil {
		proto = d.codec.ID()
	}
	return fmt.Sprintf("device %s - port: %s, protocol: %s", d.name, port, proto)
}

// SetPort binds the transport backend matching the locator, fully replacing
// any prior binding. The previous backend is closed first. An empty locator
// unbinds.
func (d *Device) SetPort(locator string) {
	old := ""
	if d.port != nil {
		old = d.port.String()
		_ = d.port.Close()
	}

	if locator == "" {
		d.port = nil
		d.locator = ""
		d.logBinding(log.BindingPort, old, "", "explicit unbind")
		return
	}

	d.locator = locator
	d.port = transport.FromLocator(locator, transport.Config{
		Baud:    d.baud,
		TCPPort: d.tcpPort,
		Timeout: d.timeout,
		Logger:  d.logger,
	})
	d.logBinding(log.BindingPort, old, d.port.String(), "")
}

// SetProtocol resolves the protocol name and binds the codec, fully
// replacing any prior binding. An empty name explicitly unbinds and is not
// an error. A name that fails to resolve leaves the device with no protocol
// bound and returns the resolution error.
func (d *Device) SetProtocol(name string) error {
	old := ""
	if d.codec != nil {
		old = d.codec.ID()
	}

	if name == "" {
		d.codec = nil
		d.protoErr = nil
		d.logBinding(log.BindingProtocol, old, "", "explicit unbind")
		return nil
	}

	codec, err := protocol.Resolve(name)
	if err != nil {
		d.codec = nil
		d.protoErr = err
		d.logBinding(log.BindingProtocol, old, "", err.Error())
		return err
	}

	d.codec = codec
	d.protoErr = nil
	d.logBinding(log.BindingProtocol, old, codec.ID(), "")
	return nil
}

// Close releases the bound transport's resources, if any.
func (d *Device) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

// RunCommand executes one command through the bound transport and codec.
// Preconditions are checked in order and fail fast: a missing protocol is
// reported before any transport I/O, a missing port before any encode.
func (d *Device) RunCommand(ctx context.Context, command string, showRaw bool) response.Response {
	start := time.Now()

	if d.codec == nil {
		return d.fail(command, &response.CommandError{
			Kind:    response.KindNoProtocol,
			Message: "Attempted to run command with no protocol defined",
		})
	}
	if d.port == nil {
		return d.fail(command, &response.CommandError{
			Kind:    response.KindNoTransport,
			Message: fmt.Sprintf("No communications port defined - unable to run command %s", command),
		})
	}

	var resp response.Response
	switch port := d.port.(type) {
	case transport.ProtocolAwareTransport:
		// The backend owns the full cycle and returns a decoded Response.
		resp = port.RunCommand(ctx, command, showRaw, d.codec)

	case transport.RawTransport:
		resp = d.runRaw(ctx, port, command, showRaw)

	default:
		resp = d.fail(command, &response.CommandError{
			Kind:    response.KindNoTransport,
			Message: fmt.Sprintf("Bound port %s has no send capability", d.port),
		})
	}

	d.logCommand(command, showRaw, resp, time.Since(start))
	return resp
}

// runRaw drives a protocol-agnostic transport: encode, exchange, decode.
func (d *Device) runRaw(ctx context.Context, port transport.RawTransport, command string, showRaw bool) response.Response {
	payload, err := d.codec.FullCommand(command)
	if err != nil {
		return d.fail(command, &response.CommandError{
			Kind:    response.KindBadCommand,
			Message: err.Error(),
		})
	}

	defn, _ := d.codec.CommandDefn(command)
	raw, err := port.SendAndReceive(ctx, payload, defn)
	if err != nil {
		// Transport failures are returned as-is, without attempting decode.
		return d.fail(command, &response.CommandError{
			Kind:    response.KindTransport,
			Message: err.Error(),
		})
	}

	return d.codec.Decode(raw, showRaw, command)
}

// RunDefaultCommand runs the bound protocol's default command.
func (d *Device) RunDefaultCommand(ctx context.Context, showRaw bool) response.Response {
	// Guarded explicitly: the bound-protocol case guarantees a default
	// command exists, but the unbound case must not dereference.
	if d.codec == nil {
		return d.fail("", &response.CommandError{
			Kind:    response.KindNoProtocol,
			Message: "Attempted to run command with no protocol defined",
		})
	}
	return d.RunCommand(ctx, d.codec.DefaultCommand(), showRaw)
}

// GetStatus runs every command in the protocol's status set, merging the
// results into one flat response. Later commands overwrite colliding keys.
func (d *Device) GetStatus(ctx context.Context, showRaw bool) response.Response {
	if d.codec == nil {
		return d.fail("", &response.CommandError{
			Kind:    response.KindNoProtocol,
			Message: "Attempted to run command with no protocol defined",
		})
	}

	data := response.Response{}
	for _, command := range d.codec.StatusCommands() {
		data.Merge(d.RunCommand(ctx, command, showRaw))
	}
	return data
}

// GetSettings runs every command in the protocol's settings set, merging
// the results into one flat response. Later commands overwrite colliding
// keys.
func (d *Device) GetSettings(ctx context.Context, showRaw bool) response.Response {
	if d.codec == nil {
		return d.fail("", &response.CommandError{
			Kind:    response.KindNoProtocol,
			Message: "Attempted to run command with no protocol defined",
		})
	}

	data := response.Response{}
	for _, command := range d.codec.SettingsCommands() {
		data.Merge(d.RunCommand(ctx, command, showRaw))
	}
	return data
}

// ListCommands returns every registered command of the bound protocol,
// mapped to its description. No transport is involved.
func (d *Device) ListCommands() response.Response {
	if d.codec == nil {
		return d.fail("", &response.CommandError{
			Kind:    response.KindNoProtocol,
			Message: "Attempted to list commands with no protocol defined",
		})
	}

	result := response.Response{}
	for name, defn := range d.codec.Commands() {
		result[name] = response.Field{Value: defn.Description, Unit: ""}
	}
	return result
}

// fail logs an expected failure and converts it to the Response shape.
func (d *Device) fail(command string, err *response.CommandError) response.Response {
	d.logger.Log(log.Event{
		Timestamp:  time.Now(),
		DeviceID:   d.id,
		DeviceName: d.name,
		Layer:      log.LayerDevice,
		Category:   log.CategoryError,
		Locator:    d.locator,
		Protocol:   d.protocolName(),
		Error: &log.ErrorEventData{
			Layer:   log.LayerDevice,
			Message: err.Message,
			Context: command,
		},
	})
	return response.NewError(err)
}

func (d *Device) logCommand(command string, showRaw bool, resp response.Response, elapsed time.Duration) {
	d.logger.Log(log.Event{
		Timestamp:  time.Now(),
		DeviceID:   d.id,
		DeviceName: d.name,
		Layer:      log.LayerDevice,
		Category:   log.CategoryCommand,
		Locator:    d.locator,
		Protocol:   d.protocolName(),
		Command: &log.CommandEvent{
			Name:     command,
			ShowRaw:  showRaw,
			Fields:   len(resp),
			Duration: &elapsed,
		},
	})
}

func (d *Device) logBinding(entity log.BindingEntity, prev, next, reason string) {
	d.logger.Log(log.Event{
		Timestamp:  time.Now(),
		DeviceID:   d.id,
		DeviceName: d.name,
		Layer:      log.LayerDevice,
		Category:   log.CategoryBinding,
		Locator:    d.locator,
		Binding:    &log.BindingEvent{Entity: entity, Old: prev, New: next, Reason: reason},
	})
}

func (d *Device) protocolName() string {
	if d.codec == nil {
		return ""
	}
	return d.codec.ID()
}
