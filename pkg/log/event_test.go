package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	dur := 42 * time.Millisecond
	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "command event",
			event: Event{
				Timestamp:  time.Now().UTC(),
				DeviceID:   "b5f3c9a0-0000-4000-8000-000000000001",
				DeviceName: "shed-inverter",
				Layer:      LayerDevice,
				Category:   CategoryCommand,
				Protocol:   "pi30",
				Command: &CommandEvent{
					Name:     "QPIGS",
					Fields:   21,
					Duration: &dur,
				},
			},
		},
		{
			name: "frame event",
			event: Event{
				Timestamp: time.Now().UTC(),
				DeviceID:  "b5f3c9a0-0000-4000-8000-000000000002",
				Direction: DirectionOut,
				Layer:     LayerTransport,
				Category:  CategoryFrame,
				Locator:   "/dev/ttyUSB0",
				Frame:     &FrameEvent{Size: 8, Data: []byte("QPI\xbe\xac\r")},
			},
		},
		{
			name: "binding event",
			event: Event{
				Timestamp: time.Now().UTC(),
				DeviceID:  "b5f3c9a0-0000-4000-8000-000000000003",
				Layer:     LayerDevice,
				Category:  CategoryBinding,
				Binding: &BindingEvent{
					Entity: BindingProtocol,
					Old:    "pi30",
					New:    "",
					Reason: "no protocol registered for \"pi99\"",
				},
			},
		},
		{
			name: "error event",
			event: Event{
				Timestamp: time.Now().UTC(),
				DeviceID:  "b5f3c9a0-0000-4000-8000-000000000004",
				Layer:     LayerTransport,
				Category:  CategoryError,
				Error: &ErrorEventData{
					Layer:   LayerTransport,
					Message: "open serial port: no such device",
					Context: "QPIGS",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}
			got, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if got.DeviceID != tt.event.DeviceID {
				t.Errorf("DeviceID = %q, want %q", got.DeviceID, tt.event.DeviceID)
			}
			if got.Layer != tt.event.Layer {
				t.Errorf("Layer = %v, want %v", got.Layer, tt.event.Layer)
			}
			if got.Category != tt.event.Category {
				t.Errorf("Category = %v, want %v", got.Category, tt.event.Category)
			}
			if !got.Timestamp.Equal(tt.event.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.event.Timestamp)
			}
		})
	}
}

func TestEnumStrings(t *testing.T) {
	if DirectionIn.String() != "IN" || DirectionOut.String() != "OUT" {
		t.Error("Direction strings wrong")
	}
	if LayerTransport.String() != "TRANSPORT" || LayerProtocol.String() != "PROTOCOL" || LayerDevice.String() != "DEVICE" {
		t.Error("Layer strings wrong")
	}
	if CategoryCommand.String() != "COMMAND" || CategoryError.String() != "ERROR" {
		t.Error("Category strings wrong")
	}
	if BindingPort.String() != "PORT" || BindingProtocol.String() != "PROTOCOL" {
		t.Error("BindingEntity strings wrong")
	}
	if Layer(99).String() != "UNKNOWN" {
		t.Error("unknown layer should stringify to UNKNOWN")
	}
}
