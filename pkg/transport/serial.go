package transport

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

// Serial is the classic serial backend. The port is opened for the duration
// of one exchange and closed again, so a stale bind never wedges the device
// node between commands.
type Serial struct {
	path    string
	baud    int
	timeout time.Duration
	logger  log.Logger
}

// NewSerial creates a serial backend for the given device path.
func NewSerial(path string, cfg Config) *Serial {
	return &Serial{
		path:    path,
		baud:    cfg.baud(),
		timeout: cfg.timeout(),
		logger:  cfg.logger(),
	}
}

// Kind returns KindSerial.
func (s *Serial) Kind() Kind { return KindSerial }

// String returns a printable description.
func (s *Serial) String() string {
	return fmt.Sprintf("serial %s @ %d baud", s.path, s.baud)
}

// SendAndReceive writes the payload and reads the reply up to the trailing
// carriage return. The exchange is bounded by the configured timeout.
func (s *Serial) SendAndReceive(ctx context.Context, payload []byte, _ *protocol.CommandDefn) ([]byte, error) {
	port, err := serial.Open(s.path, &serial.Mode{BaudRate: s.baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", s.path, err)
	}
	defer port.Close()

	if err := port.SetReadTimeout(s.timeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	// Drop anything left over from a previous, possibly aborted exchange.
	_ = port.ResetInputBuffer()
	_ = port.ResetOutputBuffer()

	if _, err := port.Write(payload); err != nil {
		return nil, fmt.Errorf("serial write: %w", err)
	}
	s.logFrame(log.DirectionOut, payload)

	reply, err := readUntilCR(ctx, port, s.timeout)
	if err != nil {
		return nil, fmt.Errorf("serial read: %w", err)
	}
	s.logFrame(log.DirectionIn, reply)
	return reply, nil
}

// Close is a no-op; the port is opened per exchange.
func (s *Serial) Close() error { return nil }

func (s *Serial) logFrame(dir log.Direction, data []byte) {
	s.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Locator:   s.path,
		Frame:     frameEvent(data),
	})
}

// readUntilCR reads single bytes until a carriage return arrives, the
// context is cancelled, or the deadline passes. A zero-byte read signals a
// driver-level timeout.
func readUntilCR(ctx context.Context, r interface{ Read([]byte) (int, error) }, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	var reply []byte
	buf := make([]byte, 1)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("no terminator after %v (read %d bytes)", timeout, len(reply))
		}

		n, err := r.Read(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("read timeout after %v (read %d bytes)", timeout, len(reply))
		}

		reply = append(reply, buf[0])
		if buf[0] == '\r' {
			return reply, nil
		}
	}
}

// frameEvent builds a FrameEvent, truncating oversized payloads.
func frameEvent(data []byte) *log.FrameEvent {
	const maxLogged = 256

	ev := &log.FrameEvent{Size: len(data)}
	if len(data) > maxLogged {
		ev.Data = append([]byte(nil), data[:maxLogged]...)
		ev.Truncated = true
	} else {
		ev.Data = append([]byte(nil), data...)
	}
	return ev
}
