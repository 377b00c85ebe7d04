package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"seasonality-dashboard/src/models"

	"github.com/rs/zerolog"
)

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name   string
	base   zerolog.Logger // sink and level, no component field
	logger zerolog.Logger
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance writing to stdout. config may be nil,
// in which case the logger runs at INFO level with JSON output.
func NewLogger(config *models.MConfig, name string) *Logger {
	level := zerolog.InfoLevel
	pretty := false
	if config != nil {
		level = ParseLevel(config.LogLevel)
		pretty = config.LogPretty
	}

	var output io.Writer = os.Stdout
	if pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}

	return newLogger(output, level, name)
}

// -----------------------------------------------------------------------------

// NewWithWriter is NewLogger with an explicit sink, used where output has to
// be captured.
func NewWithWriter(w io.Writer, level string, name string) *Logger {
	return newLogger(w, ParseLevel(level), name)
}

// -----------------------------------------------------------------------------

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{name: "nop", base: zerolog.Nop(), logger: zerolog.Nop()}
}

// -----------------------------------------------------------------------------

func newLogger(w io.Writer, level zerolog.Level, name string) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	base := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
	return &Logger{
		name:   name,
		base:   base,
		logger: base.With().Str("component", name).Logger(),
	}
}

// -----------------------------------------------------------------------------

// ParseLevel maps the config log_level (DEBUG, INFO, WARNING, ERROR) to a
// zerolog level. Unknown values fall back to INFO.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARNING", "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// -----------------------------------------------------------------------------

// Named derives a logger for a sub-component sharing the same sink and level.
func (l *Logger) Named(name string) *Logger {
	return &Logger{
		name:   name,
		base:   l.base,
		logger: l.base.With().Str("component", name).Logger(),
	}
}

// -----------------------------------------------------------------------------

// Name returns the component name.
func (l *Logger) Name() string {
	return l.name
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	l.logger.WithLevel(zerolog.FatalLevel).Msgf(format, args...)
	os.Exit(1)
}
