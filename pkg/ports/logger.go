// Package ports defines the interfaces between the stillcam core and its
// collaborators: the HTTP frame source, video sinks, the viewer window,
// frame rendering and logging.
package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-fetch and per-tick detail.
	LevelDebug LogLevel = iota
	// LevelInfo is for session-level progress messages.
	LevelInfo
	// LevelWarn is for recoverable problems (a failed fetch, a frozen frame).
	LevelWarn
	// LevelError is for problems that end the session.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown strings map to info.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations with multi-language support.
// Message strings are translation keys; see the logger adapter.
type Logger interface {
	// Debug logs per-fetch and per-tick internals.
	Debug(msg string, args ...interface{})

	// Info logs session-level progress.
	Info(msg string, args ...interface{})

	// Warn logs recoverable problems.
	Warn(msg string, args ...interface{})

	// Error logs problems that end the session.
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the
	// component name (e.g. "poller", "recorder").
	WithComponent(component string) Logger
}
