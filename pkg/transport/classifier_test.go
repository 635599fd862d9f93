package transport

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    Kind
	}{
		{"empty locator falls back to serial", "", KindSerial},
		{"plain serial path", "/dev/ttyUSB0", KindSerial},
		{"test device", "test", KindTest},
		{"test uppercase", "TEST1", KindTest},
		{"test embedded", "/dev/test-port", KindTest},
		{"hidraw path", "/dev/hidraw0", KindUSB},
		{"mppsolar symlink", "/dev/mppsolar", KindUSB},
		{"esp host", "esp32.local", KindESP32},
		{"esp uppercase", "ESP-bridge", KindESP32},
		{"mac address", "3c:a5:09:0a:85:79", KindBLE},
		{"serial usb adapter", "/dev/ttyAMA0", KindSerial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.locator); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.locator, got, tt.want)
			}
		})
	}
}

// The heuristics are an ordered tie-break policy: earlier rules win even
// when later rules would also match.
func TestClassifyRuleOrder(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    Kind
	}{
		{"test beats hidraw", "/dev/hidraw-test", KindTest},
		{"test beats esp", "esp-test.local", KindTest},
		{"test beats colon", "test:device", KindTest},
		{"hidraw beats esp", "/dev/hidraw-esp", KindUSB},
		{"hidraw beats colon", "hidraw:0", KindUSB},
		{"esp beats colon", "esp32:4c/11", KindESP32},
		{"hidraw is case-sensitive", "/dev/HIDRAW0", KindSerial},
		{"mppsolar is case-sensitive", "/dev/MPPSOLAR", KindSerial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.locator); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.locator, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindTest.String() != "TEST" || KindUSB.String() != "USB" ||
		KindESP32.String() != "ESP32" || KindBLE.String() != "BLE" ||
		KindSerial.String() != "SERIAL" {
		t.Error("Kind strings wrong")
	}
	if Kind(99).String() != "UNKNOWN" {
		t.Error("unknown kind should stringify to UNKNOWN")
	}
}
