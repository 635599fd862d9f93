package transport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
)

// hidChunkSize is the USB HID report payload size these devices accept.
// Commands longer than one report are written in chunks with a short pause
// so the device-side firmware can drain its buffer.
const hidChunkSize = 8

// hidWritePause is the inter-chunk delay.
const hidWritePause = 350 * time.Millisecond

// HIDRaw is the direct USB backend. Inverters with a USB port expose a
// /dev/hidrawN character device that speaks the same byte protocol as the
// serial line; no report descriptors are involved, so the node is driven
// with plain file I/O.
type HIDRaw struct {
	path    string
	timeout time.Duration
	logger  log.Logger
}

// NewHIDRaw creates a direct USB backend for the given hidraw device path.
func NewHIDRaw(path string, cfg Config) *HIDRaw {
	return &HIDRaw{
		path:    path,
		timeout: cfg.timeout(),
		logger:  cfg.logger(),
	}
}

// Kind returns KindUSB.
func (h *HIDRaw) Kind() Kind { return KindUSB }

// String returns a printable description.
func (h *HIDRaw) String() string {
	return fmt.Sprintf("usb %s", h.path)
}

// SendAndReceive writes the payload in HID-sized chunks and reads the reply
// until the trailing carriage return.
func (h *HIDRaw) SendAndReceive(ctx context.Context, payload []byte, _ *protocol.CommandDefn) ([]byte, error) {
	f, err := os.OpenFile(h.path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open usb device %s: %w", h.path, err)
	}
	defer f.Close()

	for off := 0; off < len(payload); off += hidChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := off + hidChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		if _, err := f.Write(payload[off:end]); err != nil {
			return nil, fmt.Errorf("usb write: %w", err)
		}
		if end < len(payload) {
			time.Sleep(hidWritePause)
		}
	}
	h.logFrame(log.DirectionOut, payload)

	reply, err := h.readReply(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("usb read: %w", err)
	}
	h.logFrame(log.DirectionIn, reply)
	return reply, nil
}

// readReply reads HID-sized chunks until one contains the terminator.
func (h *HIDRaw) readReply(ctx context.Context, f *os.File) ([]byte, error) {
	if err := f.SetReadDeadline(time.Now().Add(h.timeout)); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}

	var reply []byte
	buf := make([]byte, hidChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := f.Read(buf)
		if err != nil {
			return nil, err
		}
		reply = append(reply, buf[:n]...)

		if i := bytes.IndexByte(reply, '\r'); i >= 0 {
			return reply[:i+1], nil
		}
	}
}

// Close is a no-op; the device node is opened per exchange.
func (h *HIDRaw) Close() error { return nil }

func (h *HIDRaw) logFrame(dir log.Direction, data []byte) {
	h.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: dir,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Locator:   h.path,
		Frame:     frameEvent(data),
	})
}
