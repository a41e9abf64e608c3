package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Env   string // development writes human-readable lines, anything else JSON
	Level string
	Out   io.Writer
}

// New builds the process logger. A nil Out writes to stderr.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Out != nil {
		w = cfg.Out
	}

	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: cfg.Out != nil}
	}

	return zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
}

// OpenFile opens path for appending so the terminal UI can keep stdout to itself.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
