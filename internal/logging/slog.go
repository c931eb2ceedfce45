package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// otelScope names the logger records are bridged under.
const otelScope = "github.com/galaxygarden/nbody-datagen"

// Options selects where log records go.
type Options struct {
	// Console defaults to os.Stderr so stdout stays free for usage text.
	Console io.Writer
	// File and Graylog are optional extra sinks.
	File    io.Writer
	Graylog io.Writer
	// OTel bridges records into an OpenTelemetry log provider when set.
	OTel  *sdklog.LoggerProvider
	Level string
	// Started anchors the elapsed attribute added to every record.
	Started time.Time
}

// SlogManager manages slog-based logging.
type SlogManager struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds the handler chain: console, then optional file and Graylog,
// all wrapped so each record carries the time elapsed since opts.Started.
func (m *SlogManager) Setup(opts Options) {
	m.level = parseLevel(opts.Level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{slog.NewTextHandler(console, handlerOpts)}
	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	}
	if opts.Graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.Graylog, handlerOpts))
	}
	if opts.OTel != nil {
		bridge := otelslog.NewHandler(otelScope, otelslog.WithLoggerProvider(opts.OTel))
		handlers = append(handlers, NewLevelHandler(m.level, bridge))
	}

	var h slog.Handler = NewMultiHandler(handlers...)
	if !opts.Started.IsZero() {
		started := opts.Started
		h = NewContextHandler(h, func() []slog.Attr {
			return []slog.Attr{slog.Duration("elapsed", time.Since(started).Round(time.Millisecond))}
		})
	}

	m.logger = slog.New(h)
	m.logger.Debug("Logging initialized", "level", m.level.String())
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Level returns the level chosen in Setup.
func (m *SlogManager) Level() slog.Level {
	return m.level
}
