package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/axisacco/AXIS-ACCOUTING/internal/calculation"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	return parseLevel(s)
}

// InitLogger installs a JSON logger on stdout as the slog default
func InitLogger(level slog.Level) *slog.Logger {
	l := NewLogger(os.Stdout, level)
	slog.SetDefault(l)
	return l
}

// NewLogger builds a JSON logger writing to w
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// SlogAdapter exposes a slog.Logger through the calculators' Logger interface
type SlogAdapter struct {
	L *slog.Logger
}

// NewSlogAdapter wraps l; nil uses the slog default
func NewSlogAdapter(l *slog.Logger) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{L: l}
}

var _ calculation.Logger = (*SlogAdapter)(nil)

func (a *SlogAdapter) Debugf(format string, args ...any) { a.L.Debug(fmt.Sprintf(format, args...)) }
func (a *SlogAdapter) Infof(format string, args ...any)  { a.L.Info(fmt.Sprintf(format, args...)) }
func (a *SlogAdapter) Warnf(format string, args ...any)  { a.L.Warn(fmt.Sprintf(format, args...)) }
func (a *SlogAdapter) Errorf(format string, args ...any) { a.L.Error(fmt.Sprintf(format, args...)) }
