package commands

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
)

// Filter writes matching events from a log file to a new log file.
func Filter(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	output := fs.String("o", "", "Output log file path (required)")
	layer := fs.String("layer", "", "Filter by layer: transport, protocol, device")
	direction := fs.String("direction", "", "Filter by direction: in, out")
	category := fs.String("category", "", "Filter by category: command, frame, binding, error")
	deviceName := fs.String("device", "", "Filter by device name")
	deviceID := fs.String("device-id", "", "Filter by device instance ID")
	timeStart := fs.String("time-start", "", "Keep events at or after this RFC3339 time")
	timeEnd := fs.String("time-end", "", "Keep events before this RFC3339 time")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("filter: expected one log file argument")
	}
	if *output == "" {
		return fmt.Errorf("filter: -o output path is required")
	}

	filter, err := buildFilter(*layer, *direction, *category, *deviceName)
	if err != nil {
		return err
	}
	filter.DeviceID = *deviceID

	if *timeStart != "" {
		t, err := time.Parse(time.RFC3339, *timeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if *timeEnd != "" {
		t, err := time.Parse(time.RFC3339, *timeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(*output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		logger.Log(event)
		count++
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, *output)
	return nil
}
