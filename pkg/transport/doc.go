// Package transport provides the I/O backends that move encoded command
// bytes to and from power-device hardware.
//
// # Backends
//
//   - Loopback: emulated device serving captured test frames
//   - HIDRaw:   direct USB HID via the /dev/hidrawN character device
//   - ESP32:    serial bridge reachable over a TCP socket
//   - BLE:      Bluetooth-LE GATT (protocol-aware, see below)
//   - Serial:   classic serial port
//
// A locator string selects the backend through Classify, using the ordered
// heuristics the fleet has relied on historically (see classifier.go).
//
// # Capability split
//
// Most backends are protocol-agnostic: they implement RawTransport and move
// fully-encoded payloads without understanding them. The BLE backend is
// protocol-aware: replies arrive as notification fragments that must be
// assembled and decoded in place, so it implements ProtocolAwareTransport
// and runs the whole encode/send/receive/decode cycle itself. The device
// layer selects its execution strategy by checking which capability the
// bound transport declares, never by inspecting concrete types.
//
// All backends block the calling goroutine until the exchange completes or
// fails; timeouts live inside each backend and surface as ordinary errors.
package transport
