// Package log provides pipeline event logging for powermon.
//
// Components receive a Logger explicitly; there is no package-level logger
// and no global state. Events capture device identity, the layer that
// produced them (transport, protocol, device) and a type-specific payload
// (command run, raw frame, binding change, error).
//
// Available implementations:
//   - NoopLogger: discards events (the default everywhere)
//   - SlogAdapter: writes events to a log/slog logger for console output
//   - FileLogger: appends CBOR-encoded events to a file
//   - MultiLogger: fans events out to several loggers
//
// Reader streams events back out of a FileLogger file, with filtering.
package log
