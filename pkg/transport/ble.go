package transport

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/powermon-protocol/powermon-go/pkg/log"
	"github.com/powermon-protocol/powermon-go/pkg/protocol"
	"github.com/powermon-protocol/powermon-go/pkg/response"
)

// GATT identifiers of the serial-over-BLE service the supported BMS units
// expose. A single characteristic carries both writes and notifications.
var (
	bleServiceUUID = bluetooth.New16BitUUID(0xFFE0)
	bleCharUUID    = bluetooth.New16BitUUID(0xFFE1)
)

// bleQuietWindow ends record collection for codecs that cannot judge
// completeness: once notifications stop for this long, the record is taken
// as finished.
const bleQuietWindow = 500 * time.Millisecond

// bleAdapterOnce guards the one-time power-up of the host adapter.
var (
	bleAdapterOnce sync.Once
	bleAdapterErr  error
)

// BLE is the Bluetooth-LE GATT backend. It is protocol-aware: replies
// arrive as a stream of notification fragments that must be assembled into
// a record and decoded in place, so the backend owns the full command
// cycle instead of exposing raw byte exchange.
type BLE struct {
	mac     string
	timeout time.Duration
	logger  log.Logger
}

// NewBLE creates a BLE backend for the given MAC address.
func NewBLE(mac string, cfg Config) *BLE {
	return &BLE{
		mac:     mac,
		timeout: cfg.timeout(),
		logger:  cfg.logger(),
	}
}

// Kind returns KindBLE.
func (b *BLE) Kind() Kind { return KindBLE }

// String returns a printable description.
func (b *BLE) String() string {
	return fmt.Sprintf("ble %s", b.mac)
}

// Close is a no-op; the peripheral is connected per command.
func (b *BLE) Close() error { return nil }

// RunCommand executes one command end to end: encode via the codec, write
// to the GATT characteristic, assemble the notification stream into a
// record, and decode. Failures are reported in the uniform Response shape.
func (b *BLE) RunCommand(ctx context.Context, command string, showRaw bool, codec protocol.Codec) response.Response {
	payload, err := codec.FullCommand(command)
	if err != nil {
		return response.NewError(&response.CommandError{
			Kind:    response.KindBadCommand,
			Message: err.Error(),
		})
	}

	record, err := b.exchange(ctx, payload, codec)
	if err != nil {
		b.logger.Log(log.Event{
			Timestamp: time.Now(),
			Layer:     log.LayerTransport,
			Category:  log.CategoryError,
			Locator:   b.mac,
			Error:     &log.ErrorEventData{Layer: log.LayerTransport, Message: err.Error(), Context: command},
		})
		return response.NewError(&response.CommandError{
			Kind:    response.KindTransport,
			Message: err.Error(),
		})
	}

	return codec.Decode(record, showRaw, command)
}

// exchange connects to the peripheral, subscribes, writes the payload and
// collects the reply record.
func (b *BLE) exchange(ctx context.Context, payload []byte, codec protocol.Codec) ([]byte, error) {
	adapter := bluetooth.DefaultAdapter
	bleAdapterOnce.Do(func() { bleAdapterErr = adapter.Enable() })
	if bleAdapterErr != nil {
		return nil, fmt.Errorf("enable ble adapter: %w", bleAdapterErr)
	}

	addr, err := b.find(ctx, adapter)
	if err != nil {
		return nil, err
	}

	dev, err := adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", b.mac, err)
	}
	defer dev.Disconnect()

	svcs, err := dev.DiscoverServices([]bluetooth.UUID{bleServiceUUID})
	if err != nil || len(svcs) == 0 {
		return nil, fmt.Errorf("discover service on %s: %w", b.mac, err)
	}
	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{bleCharUUID})
	if err != nil || len(chars) == 0 {
		return nil, fmt.Errorf("discover characteristic on %s: %w", b.mac, err)
	}
	char := chars[0]

	// Record assembly. Codecs that understand their record framing drive
	// completeness; otherwise a quiet window ends collection.
	assembler, hasAssembler := codec.(protocol.RecordAssembler)

	var (
		mu     sync.Mutex
		record []byte
	)
	done := make(chan struct{}, 1)
	quiet := time.NewTimer(b.timeout)
	defer quiet.Stop()

	err = char.EnableNotifications(func(buf []byte) {
		mu.Lock()
		defer mu.Unlock()

		if hasAssembler && assembler.IsRecordStart(buf) {
			record = record[:0]
		}
		record = append(record, buf...)

		if hasAssembler {
			if assembler.IsRecordComplete(record) {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		} else {
			quiet.Reset(bleQuietWindow)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("enable notifications on %s: %w", b.mac, err)
	}

	if _, err := char.WriteWithoutResponse(payload); err != nil {
		return nil, fmt.Errorf("ble write: %w", err)
	}
	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Locator:   b.mac,
		Frame:     frameEvent(payload),
	})

	select {
	case <-done:
	case <-quiet.C:
		if hasAssembler {
			return nil, fmt.Errorf("no complete record from %s after %v", b.mac, b.timeout)
		}
		// Quiet window elapsed; take whatever arrived.
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(b.timeout):
		return nil, fmt.Errorf("ble exchange timed out after %v", b.timeout)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(record) == 0 {
		return nil, fmt.Errorf("no notification data from %s", b.mac)
	}
	out := append([]byte(nil), record...)
	b.logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerTransport,
		Category:  log.CategoryFrame,
		Locator:   b.mac,
		Frame:     frameEvent(out),
	})
	return out, nil
}

// find scans for the peripheral with the configured MAC address.
func (b *BLE) find(ctx context.Context, adapter *bluetooth.Adapter) (bluetooth.Address, error) {
	found := make(chan bluetooth.Address, 1)
	scanErr := make(chan error, 1)

	go func() {
		scanErr <- adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
			if strings.EqualFold(result.Address.String(), b.mac) {
				_ = a.StopScan()
				select {
				case found <- result.Address:
				default:
				}
			}
		})
	}()

	select {
	case addr := <-found:
		return addr, nil
	case err := <-scanErr:
		if err != nil {
			return bluetooth.Address{}, fmt.Errorf("ble scan: %w", err)
		}
		return bluetooth.Address{}, fmt.Errorf("ble scan stopped before finding %s", b.mac)
	case <-ctx.Done():
		_ = adapter.StopScan()
		return bluetooth.Address{}, ctx.Err()
	case <-time.After(b.timeout):
		_ = adapter.StopScan()
		return bluetooth.Address{}, fmt.Errorf("peripheral %s not found after %v", b.mac, b.timeout)
	}
}
