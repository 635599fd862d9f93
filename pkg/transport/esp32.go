package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

// ESP32 is the network bridge backend: an ESP32 module wired to the
// device's serial header and exposing it as a TCP socket. One connection
// is dialed per exchange.
type ESP32 struct {
	host    string
	port    int
	timeout time.Duration
	logger  log.Logger
}

// NewESP32 creates an ESP32 bridge backend. The locator is the bridge host
// name or address; the TCP port comes from the config.
func NewESP32(host string, cfg Config) *ESP32 {
	return &ESP32{
		host:    host,
		port:    cfg.tcpPort(),
		timeout: cfg.timeout(),
		logger:  cfg.logger(),
	}
}

// Kind returns KindESP32.
func (e *ESP32) Kind() Kind { return KindESP32 }

// String returns a printable description.
func (e *ESP32) String() string {
	return fmt.Sprintf("esp32 %s", e.addr())
}

func (e *ESP32) addr() string {
	return net.JoinHostPort(e.host, strconv.Itoa(e.port))
}

// SendAndReceive dials the bridge, writes the payload and reads the reply
// up to the trailing carriage return.
func (e *ESP32) SendAndReceive(ctx context.Context, payload []byte, _ *protocol.CommandDefn) ([]byte, error) {
	dialer := net.Dialer{Timeout: e.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", e.addr())
	if err != nil {
		return nil, fmt.Errorf("dial esp32 bridge %s: %w", e.addr(), err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(e.timeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := conn.Write(payload); err != nil {
		return nil, fmt.Errorf("esp32 write: %w", err)
	}
	e.logFrame(log.DirectionOut, payload)

	reply, err := bufio.NewReader(conn).ReadBytes('\r')
	if err != nil {
		return nil, fmt.Errorf("esp32 read: %w", err)
	}
	e.logFrame(log.DirectionIn, reply)
	return reply, nil
}

// Close is a no-op; a connection is dialed per exchange.
func (e *ESP32) Close() error { return nil }

func (e *ESP32) logFrame(dir log.Direction, data []byte) {
	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Locator:   e.host,
		Frame:     frameEvent(data),
	})
}
