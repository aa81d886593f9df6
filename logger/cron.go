package logger

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger forwards cron's internal logging to slog. Cron's Info messages
// are scheduler chatter, so they go out at DEBUG.
type cronLogger struct {
	l *slog.Logger
}

// Cron adapts l to the cron.Logger interface.
func Cron(l *slog.Logger) cron.Logger {
	return cronLogger{l: l}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
