package transport

import "strings"

// Kind identifies a transport backend family.
type Kind uint8

const (
	// KindTest is the emulated loopback backend.
	KindTest Kind = iota

	// KindUSB is the direct USB HID backend.
	KindUSB

	// KindESP32 is the ESP32 network bridge backend.
	KindESP32

	// KindBLE is the Bluetooth-LE GATT backend.
	KindBLE

	// KindSerial is the classic serial backend (the fallback).
	KindSerial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTest:
		return "TEST"
	case KindUSB:
		return "USB"
	case KindESP32:
		return "ESP32"
	case KindBLE:
		return "BLE"
	case KindSerial:
		return "SERIAL"
	default:
		return "UNKNOWN"
	}
}

// Classify maps a device locator string to a transport kind. It is pure and
// total: every locator, including the empty string, resolves to a kind.
//
// The heuristics run in a fixed order; the first match wins:
//
//  1. "test" anywhere (case-insensitive) -> KindTest
//  2. "hidraw" or "mppsolar" substring (case-sensitive) -> KindUSB
//  3. "esp" anywhere (case-insensitive) -> KindESP32
//  4. a colon (MAC-address signature) -> KindBLE
//  5. otherwise -> KindSerial
//
// The substring matches are deliberately loose and kept for compatibility
// with existing fleet configurations: a serial path that happens to contain
// "esp" will misclassify. Callers needing an exact binding should name
// their device nodes accordingly rather than rely on the heuristic.
func Classify(locator string) Kind {
	if locator == "" {
		return KindSerial
	}

	lower := strings.ToLower(locator)
	switch {
	case strings.Contains(lower, "test"):
		return KindTest
	case strings.Contains(locator, "hidraw"), strings.Contains(locator, "mppsolar"):
		return KindUSB
	case strings.Contains(lower, "esp"):
		return KindESP32
	case strings.Contains(locator, ":"):
		return KindBLE
	default:
		return KindSerial
	}
}
