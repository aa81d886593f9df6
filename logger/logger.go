package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// level is shared by every logger derived from Log, so SetLevel also
// affects loggers created before the change.
var level = new(slog.LevelVar)

// Log is the process-wide logger. It starts at INFO on stdout and is
// replaced by Init.
var Log = newLogger(level, os.Stdout)

// Init replaces Log with a logger at the given level. If LOG_FILE is set the
// output is duplicated to that file.
func Init(name string) {
	writers := []io.Writer{os.Stdout}

	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err == nil {
			writers = append(writers, file)
		}
	}

	level.Set(ParseLevel(name))
	Log = newLogger(level, io.MultiWriter(writers...))
}

// SetLevel changes the level of Log and every logger derived from it.
func SetLevel(name string) {
	level.Set(ParseLevel(name))
}

func newLogger(l slog.Leveler, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// New creates a text logger writing to w at the named level
// (DEBUG, INFO, WARN or ERROR; anything else means INFO).
func New(level string, w io.Writer) *slog.Logger {
	logLevel := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG", "TRACE":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
