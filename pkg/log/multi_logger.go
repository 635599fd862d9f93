package log

// MultiLogger fans one event stream out to several loggers, typically a
// SlogAdapter for the console next to a FileLogger for later analysis.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger wraps the given loggers. Order is preserved: each event
// reaches the loggers in the order they were passed.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
