package commands

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
)

// Export converts a log file to JSONL or CSV.
func Export(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "jsonl", "Output format: jsonl, csv")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("export: expected one log file argument")
	}

	reader, err := log.NewReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer reader.Close()

	switch *format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(newExportRecord(event)); err != nil {
			return err
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "device", "direction", "layer", "category", "detail", "size"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		detail, size := eventDetail(event)
		row := []string{
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.DeviceName,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			detail,
			strconv.Itoa(size),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
}

// exportRecord is the flattened JSONL shape of an event.
type exportRecord struct {
	Timestamp  time.Time           `json:"timestamp"`
	DeviceID   string              `json:"device_id"`
	DeviceName string              `json:"device_name,omitempty"`
	Direction  string              `json:"direction"`
	Layer      string              `json:"layer"`
	Category   string              `json:"category"`
	Locator    string              `json:"locator,omitempty"`
	Protocol   string              `json:"protocol,omitempty"`
	Command    *log.CommandEvent   `json:"command,omitempty"`
	Frame      *log.FrameEvent     `json:"frame,omitempty"`
	Binding    *log.BindingEvent   `json:"binding,omitempty"`
	Error      *log.ErrorEventData `json:"error,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	return exportRecord{
		Timestamp:  event.Timestamp,
		DeviceID:   event.DeviceID,
		DeviceName: event.DeviceName,
		Direction:  event.Direction.String(),
		Layer:      event.Layer.String(),
		Category:   event.Category.String(),
		Locator:    event.Locator,
		Protocol:   event.Protocol,
		Command:    event.Command,
		Frame:      event.Frame,
		Binding:    event.Binding,
		Error:      event.Error,
	}
}

// eventDetail summarizes the type-specific payload for the CSV row.
func eventDetail(event log.Event) (string, int) {
	switch {
	case event.Command != nil:
		return event.Command.Name, 0
	case event.Frame != nil:
		return "", event.Frame.Size
	case event.Binding != nil:
		return fmt.Sprintf("%s: %q -> %q", event.Binding.Entity, event.Binding.Old, event.Binding.New), 0
	case event.Error != nil:
		return event.Error.Message, 0
	default:
		return "", 0
	}
}
