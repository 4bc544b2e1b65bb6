package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the log level, encoding and destination. It mirrors the
// logging block of the YAML configuration but is kept as its own type so
// this package does not depend on the config package.
type Config struct {
	// Level is one of debug, info, warn or error. Unknown values fall
	// back to info.
	Level string

	// Format is "json" or "text". Anything else means json.
	Format string

	// Output is "stdout" or "stderr".
	Output string
}

// Logger is a thin wrapper over slog.Logger so call sites share one type
// and child loggers keep the wrapper methods.
//
// All methods are safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from cfg. Every record carries the service name and
// the supplied build version so aggregated logs from several daemons stay
// attributable.
func New(cfg Config, version string) *Logger {
	handler := newHandler(cfg).WithAttrs([]slog.Attr{
		slog.String("service", "mediastack"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewWriter builds a Logger that writes to w instead of a standard stream.
// Used by tests that assert on emitted records.
func NewWriter(w io.Writer, cfg Config, version string) *Logger {
	handler := encode(cfg.Format, w, parseLevel(cfg.Level)).WithAttrs([]slog.Attr{
		slog.String("service", "mediastack"),
		slog.String("version", version),
	})
	return &Logger{Logger: slog.New(handler)}
}

// Default returns a stdout/json/info logger for use before the
// configuration file has been read.
func Default() *Logger {
	return New(Config{Level: "info", Format: "json", Output: "stdout"}, "dev")
}

// With returns a child Logger carrying extra default attributes.
// The conventional first pair is ("component", "<package>").
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func newHandler(cfg Config) slog.Handler {
	w := io.Writer(os.Stdout)
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return encode(cfg.Format, w, parseLevel(cfg.Level))
}

func encode(format string, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
