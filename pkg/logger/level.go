package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Level is the SDK log level. Higher values are more verbose.
type Level int

const (
	LevelNone Level = iota
	LevelCritical
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Custom slog levels for the two SDK levels slog does not define.
const (
	SlogLevelTrace    = slog.LevelDebug - 4
	SlogLevelCritical = slog.LevelError + 4
)

var levelNames = map[Level]string{
	LevelNone:     "NONE",
	LevelCritical: "CRITICAL",
	LevelError:    "ERROR",
	LevelWarn:     "WARN",
	LevelInfo:     "INFO",
	LevelDebug:    "DEBUG",
	LevelTrace:    "TRACE",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= LevelNone && l <= LevelTrace
}

// Slog returns the slog level that enables exactly the records l allows.
// LevelNone maps to a level above CRITICAL.
func (l Level) Slog() slog.Level {
	switch l {
	case LevelCritical:
		return SlogLevelCritical
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	case LevelTrace:
		return SlogLevelTrace
	default:
		return SlogLevelCritical + 1
	}
}

// ParseLevel accepts a level name (case-insensitive) or its number.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LevelNone, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if !l.Valid() {
			return LevelNone, fmt.Errorf("%w: %d", ErrInvalidLevel, n)
		}
		return l, nil
	}
	upper := strings.ToUpper(s)
	if upper == "WARNING" {
		return LevelWarn, nil
	}
	for l, name := range levelNames {
		if name == upper {
			return l, nil
		}
	}
	return LevelNone, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// UnmarshalText lets Level be decoded from env variables and YAML scalars.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Trace logs at TRACE level.
func Trace(ctx context.Context, log *slog.Logger, msg string, args ...any) {
	log.Log(ctx, SlogLevelTrace, msg, args...)
}

// Critical logs at CRITICAL level.
func Critical(ctx context.Context, log *slog.Logger, msg string, args ...any) {
	log.Log(ctx, SlogLevelCritical, msg, args...)
}

// replaceLevelName renders the custom levels by name instead of "DEBUG-4" / "ERROR+4".
func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	lvl, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case lvl <= SlogLevelTrace:
		a.Value = slog.StringValue(LevelTrace.String())
	case lvl >= SlogLevelCritical:
		a.Value = slog.StringValue(LevelCritical.String())
	}
	return a
}
