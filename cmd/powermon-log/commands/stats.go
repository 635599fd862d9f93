package commands

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/powermon-protocol/powermon-go/pkg/log"
)

// logStats holds aggregate statistics about a log file.
type logStats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Devices           map[string]*deviceStats
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// deviceStats holds statistics for a single device instance.
type deviceStats struct {
	FirstSeen     time.Time
	LastSeen      time.Time
	Events        int
	Name          string
	Locator       string
	Protocol      string
	Commands      int
	FrameBytesIn  int
	FrameBytesOut int
}

// Stats analyzes the log file and prints statistics.
func Stats(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("stats: expected one log file argument")
	}

	reader, err := log.NewReader(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &logStats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Devices:           make(map[string]*deviceStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByCategory[event.Category]++
		if event.Category == log.CategoryFrame {
			stats.EventsByDirection[event.Direction]++
		}

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track per-device stats
		dev, ok := stats.Devices[event.DeviceID]
		if !ok {
			dev = &deviceStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Devices[event.DeviceID] = dev
		}
		dev.Events++
		if event.Timestamp.After(dev.LastSeen) {
			dev.LastSeen = event.Timestamp
		}
		if event.DeviceName != "" && dev.Name == "" {
			dev.Name = event.DeviceName
		}
		if event.Locator != "" {
			dev.Locator = event.Locator
		}
		if event.Protocol != "" {
			dev.Protocol = event.Protocol
		}

		if event.Command != nil {
			dev.Commands++
		}
		if event.Frame != nil {
			switch event.Direction {
			case log.DirectionIn:
				dev.FrameBytesIn += event.Frame.Size
			case log.DirectionOut:
				dev.FrameBytesOut += event.Frame.Size
			}
		}

		if event.Error != nil {
			stats.Errors++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *logStats) {
	fmt.Fprintln(w, "=== Powermon Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by layer
	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerDevice} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by category
	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryCommand, log.CategoryFrame, log.CategoryBinding, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Frame direction split
	if stats.EventsByCategory[log.CategoryFrame] > 0 {
		fmt.Fprintln(w, "Frames by Direction:")
		for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
			if count := stats.EventsByDirection[dir]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	// Devices
	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	if len(stats.Devices) > 0 {
		// Sort by first seen time
		type devInfo struct {
			id    string
			stats *deviceStats
		}
		devs := make([]devInfo, 0, len(stats.Devices))
		for id, ds := range stats.Devices {
			devs = append(devs, devInfo{id, ds})
		}
		sort.Slice(devs, func(i, j int) bool {
			return devs[i].stats.FirstSeen.Before(devs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, d := range devs {
			duration := d.stats.LastSeen.Sub(d.stats.FirstSeen).Round(time.Millisecond)
			shortID := d.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			label := shortID
			if d.stats.Name != "" {
				label = d.stats.Name
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", label, d.stats.Events, duration)
			if d.stats.Locator != "" {
				fmt.Fprintf(w, "           Port: %s\n", d.stats.Locator)
			}
			if d.stats.Protocol != "" {
				fmt.Fprintf(w, "           Protocol: %s\n", d.stats.Protocol)
			}
			if d.stats.Commands > 0 {
				fmt.Fprintf(w, "           Commands: %d\n", d.stats.Commands)
			}
			if d.stats.FrameBytesIn > 0 || d.stats.FrameBytesOut > 0 {
				fmt.Fprintf(w, "           Bytes: %d in / %d out\n",
					d.stats.FrameBytesIn, d.stats.FrameBytesOut)
			}
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
