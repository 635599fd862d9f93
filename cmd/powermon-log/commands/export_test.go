package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:  ts,
			DeviceID:   "abc12345",
			DeviceName: "inverter",
			Direction:  log.DirectionOut,
			Layer:      log.LayerDevice,
			Category:   log.CategoryCommand,
			Protocol:   "pi30",
			Command:    &log.CommandEvent{Name: "QPIGS", Fields: 21},
		},
		{
			Timestamp: ts.Add(time.Second),
			DeviceID:  "abc12345",
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryFrame,
			Frame:     &log.FrameEvent{Size: 110},
		},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := Export([]string{"-format", "jsonl", path}, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first["device_name"] != "inverter" {
		t.Errorf("expected device_name inverter, got %v", first["device_name"])
	}
	if first["category"] != "COMMAND" {
		t.Errorf("expected category COMMAND, got %v", first["category"])
	}
	if first["protocol"] != "pi30" {
		t.Errorf("expected protocol pi30, got %v", first["protocol"])
	}
	cmd, ok := first["command"].(map[string]any)
	if !ok {
		t.Fatalf("expected command payload, got %v", first["command"])
	}
	if cmd["Name"] != "QPIGS" {
		t.Errorf("expected command name QPIGS, got %v", cmd["Name"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("second line is not valid JSON: %v", err)
	}
	if second["category"] != "FRAME" {
		t.Errorf("expected category FRAME, got %v", second["category"])
	}
	if second["direction"] != "IN" {
		t.Errorf("expected direction IN, got %v", second["direction"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:  ts,
			DeviceID:   "abc12345",
			DeviceName: "bms",
			Direction:  log.DirectionOut,
			Layer:      log.LayerDevice,
			Category:   log.CategoryCommand,
			Command:    &log.CommandEvent{Name: "getInfo", Fields: 13},
		},
		{
			Timestamp:  ts.Add(time.Second),
			DeviceID:   "abc12345",
			DeviceName: "bms",
			Layer:      log.LayerTransport,
			Category:   log.CategoryError,
			Error:      &log.ErrorEventData{Layer: log.LayerTransport, Message: "read timed out"},
		},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := Export([]string{"-format", "csv", path}, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "timestamp" || records[0][4] != "category" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "bms" || records[1][5] != "getInfo" {
		t.Errorf("unexpected command row: %v", records[1])
	}
	if records[2][4] != "ERROR" || records[2][5] != "read timed out" {
		t.Errorf("unexpected error row: %v", records[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	err := Export([]string{"-format", "xml", path}, &buf)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error to name the format, got: %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := Export([]string{"/nonexistent/path.plog"}, &buf); err == nil {
		t.Fatal("expected error for missing file")
	}
}
