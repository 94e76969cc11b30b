package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/s-celles/atpack-go/internal/infrastructure/config"
)

// serviceName tags every record so aggregated logs from multiple atpackd
// instances stay attributable.
const serviceName = "atpackd"

// Logger is the service-wide structured logger. It embeds *slog.Logger,
// so call sites use the plain slog surface (Info, Warn, Error with
// key-value pairs).
//
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds the logger from the logging section of config.yaml. JSON is
// the default format; "text" reads better when tailing a local run.
// Every record carries service and version default fields.
func New(cfg config.LoggingConfig, version string) *Logger {
	handler := newHandler(cfg).WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// newHandler picks the output stream, format, and level from config.
func newHandler(cfg config.LoggingConfig) slog.Handler {
	var output io.Writer = os.Stdout
	if strings.EqualFold(cfg.Output, "stderr") {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(output, opts)
	}
	return slog.NewJSONHandler(output, opts)
}

// parseLevel maps a config level string to slog. Unknown strings fall
// back to info rather than failing startup over a typo.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying extra default attributes, e.g.
//
//	apiLog := log.With("component", "api")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger used before configuration loads:
// JSON to stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
