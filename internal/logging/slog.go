package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Console sinks, swapped out by tests.
var (
	osStdout io.Writer = os.Stdout
	osStderr io.Writer = os.Stderr
)

// SlogManager owns the process-wide slog logger of the simulator.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes logging. With a file, records at the configured level
// go to the file and warnings and above are echoed to stderr; without one
// everything goes to stdout. A non-nil provider adds its attributes to
// every record.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	lvl := parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if file != nil {
		handler = NewMultiHandler(
			slog.NewTextHandler(file, handlerOpts),
			slog.NewTextHandler(osStderr, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: handlerOpts.ReplaceAttr,
			}),
		)
	} else {
		handler = slog.NewTextHandler(osStdout, handlerOpts)
	}

	if provider != nil {
		handler = NewContextHandler(handler, provider)
	}

	m.logger = slog.New(handler)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Component returns a child logger tagged with the given component name.
func (m *SlogManager) Component(name string) *slog.Logger {
	return m.Logger().With("component", name)
}
