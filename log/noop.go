package log

// NoopLogger discards everything. It is the default logger of every decoder.
type NoopLogger struct{}

var _ Logger = NoopLogger{}

// NewNoopLogger returns a logger that discards all entries.
func NewNoopLogger() NoopLogger {
	return NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
