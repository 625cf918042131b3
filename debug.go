package overlay

import (
	"log/slog"
	"os"
)

// defaultLogger writes text records to stderr at debug level.
func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetDebugMode enables or disables debug logging of canvas edits.
func (c *Canvas) SetDebugMode(enabled bool) {
	c.debug = enabled
}

// SetLogger replaces the logger used in debug mode. A nil logger restores the
// default stderr logger.
func (c *Canvas) SetLogger(l *slog.Logger) {
	if l == nil {
		l = defaultLogger()
	}
	c.logger = l
}

// debugLog logs msg when debug mode is on.
func (c *Canvas) debugLog(msg string, args ...any) {
	if !c.debug {
		return
	}
	c.logger.Debug(msg, args...)
}

func entityAttrs(e Entity) slog.Attr {
	if e == nil {
		return slog.Group("entity")
	}
	return slog.Group("entity", slog.String("id", e.ID()), slog.String("kind", e.Kind().String()))
}
