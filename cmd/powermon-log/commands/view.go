// Package commands implements the powermon-log CLI commands.
package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/powermon-protocol/powermon-go/pkg/log"
)

// View renders a log file in human-readable format.
func View(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	layer := fs.String("layer", "", "Filter by layer: transport, protocol, device")
	direction := fs.String("direction", "", "Filter by direction: in, out")
	category := fs.String("category", "", "Filter by category: command, frame, binding, error")
	deviceName := fs.String("device", "", "Filter by device name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("view: expected one log file argument")
	}

	filter, err := buildFilter(*layer, *direction, *category, *deviceName)
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		formatEvent(w, event)
	}
}

// buildFilter converts the flag strings into a log filter.
func buildFilter(layer, direction, category, deviceName string) (log.Filter, error) {
	filter := log.Filter{DeviceName: deviceName}

	if layer != "" {
		l, err := parseLayer(layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if direction != "" {
		d, err := parseDirection(direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if category != "" {
		c, err := parseCategory(category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	return filter, nil
}

func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "device":
		return log.LayerDevice, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", s)
	}
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "command":
		return log.CategoryCommand, nil
	case "frame":
		return log.CategoryFrame, nil
	case "binding":
		return log.CategoryBinding, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	name := event.DeviceName
	if name == "" {
		name = shortenID(event.DeviceID)
	}

	var typeLabel string
	switch {
	case event.Command != nil:
		typeLabel = "Command"
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Binding != nil:
		typeLabel = "Binding"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [%s] %-3s %s %s\n", ts, name, event.Direction, event.Layer, typeLabel)

	switch {
	case event.Command != nil:
		formatCommandDetails(w, event.Command)
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Binding != nil:
		formatBindingDetails(w, event.Binding)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of the device ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatCommandDetails(w io.Writer, cmd *log.CommandEvent) {
	fmt.Fprintf(w, "  Command: %s\n", cmd.Name)
	if cmd.ShowRaw {
		fmt.Fprintf(w, "  ShowRaw: true\n")
	}
	fmt.Fprintf(w, "  Fields: %d\n", cmd.Fields)
	if cmd.Duration != nil {
		fmt.Fprintf(w, "  Duration: %s\n", cmd.Duration)
	}
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatBindingDetails(w io.Writer, binding *log.BindingEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", binding.Entity)
	fmt.Fprintf(w, "  Old: %q New: %q\n", binding.Old, binding.New)
	if binding.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", binding.Reason)
	}
}

func formatErrorDetails(w io.Writer, errData *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", errData.Message)
	if errData.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", errData.Context)
	}
}
