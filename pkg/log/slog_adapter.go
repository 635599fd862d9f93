package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes pipeline events to an slog.Logger.
// Useful for development when you want to see pipeline events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("device_id", event.DeviceID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.DeviceName != "" {
		attrs = append(attrs, slog.String("device", event.DeviceName))
	}
	if event.Locator != "" {
		attrs = append(attrs, slog.String("locator", event.Locator))
	}
	if event.Protocol != "" {
		attrs = append(attrs, slog.String("protocol", event.Protocol))
	}

	// Add type-specific attributes
	switch {
	case event.Command != nil:
		attrs = append(attrs, slog.String("command", event.Command.Name))
		if event.Command.Alias != "" {
			attrs = append(attrs, slog.String("alias", event.Command.Alias))
		}
		if event.Command.ShowRaw {
			attrs = append(attrs, slog.Bool("show_raw", true))
		}
		if event.Command.Fields > 0 {
			attrs = append(attrs, slog.Int("fields", event.Command.Fields))
		}
		if event.Command.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *event.Command.Duration))
		}
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Binding != nil:
		attrs = append(attrs,
			slog.String("entity", event.Binding.Entity.String()),
			slog.String("old", event.Binding.Old),
			slog.String("new", event.Binding.New),
		)
		if event.Binding.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Binding.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "pipeline", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
