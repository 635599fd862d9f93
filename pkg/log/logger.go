package log

// Logger receives pipeline events from the device, protocol and transport
// layers. Log must be safe to call from multiple goroutines and should
// return quickly: it runs inline on the command path.
type Logger interface {
	Log(event Event)
}

// NoopLogger drops every event. Components fall back to it when no logger
// is configured; the zero value is ready to use.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
