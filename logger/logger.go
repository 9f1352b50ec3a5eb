package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

// Logger is the logging contract used across the module. It matches the
// method set of go-logger so adapters stay thin.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns named loggers.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger attaches structured fields to a logger.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// Level orders log severities.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a level name such as "debug" to a Level.
func ParseLevel(name string) (Level, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, label := range levelNames {
		if label == upper {
			return level, true
		}
	}
	return LevelInfo, false
}

// BasicLogger writes key=value lines to a writer.
type BasicLogger struct {
	Writer io.Writer
	Min    Level
	fields map[string]any
	mu     *sync.Mutex
}

// Default returns a usable logger when none is provided.
func Default() Logger {
	return defaultLogger
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

// NewBasicLogger logs to stdout at info level and above.
func NewBasicLogger() *BasicLogger {
	return &BasicLogger{Writer: os.Stdout, Min: LevelInfo, mu: &sync.Mutex{}}
}

// WithFields implements FieldsLogger.
func (l *BasicLogger) WithFields(fields map[string]any) Logger {
	if l == nil {
		l = NewBasicLogger()
	}
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &BasicLogger{Writer: l.Writer, Min: l.Min, fields: merged, mu: l.lock()}
}

// WithContext implements Logger.
func (l *BasicLogger) WithContext(context.Context) Logger {
	return l
}

func (l *BasicLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args...) }
func (l *BasicLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *BasicLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *BasicLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *BasicLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
func (l *BasicLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args...) }

func (l *BasicLogger) lock() *sync.Mutex {
	if l.mu == nil {
		l.mu = &sync.Mutex{}
	}
	return l.mu
}

func (l *BasicLogger) log(level Level, msg string, args ...any) {
	if l == nil || level < l.Min {
		return
	}
	out := l.Writer
	if out == nil {
		out = os.Stdout
	}
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for _, pair := range Pairs(l.fields, args...) {
		b.WriteString(" ")
		b.WriteString(pair)
	}
	b.WriteString("\n")

	mu := l.lock()
	mu.Lock()
	defer mu.Unlock()
	_, _ = io.WriteString(out, b.String())
}

// Pairs renders fields (sorted) followed by alternating key/value args as
// key=value strings. A trailing key without value is reported as-is.
func Pairs(fields map[string]any, args ...any) []string {
	out := make([]string, 0, len(fields)+len(args)/2+1)
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s=%v", key, fields[key]))
	}
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			out = append(out, fmt.Sprint(args[i]))
			break
		}
		out = append(out, fmt.Sprintf("%v=%v", args[i], args[i+1]))
	}
	return out
}

type nopLogger struct{}

func (nopLogger) Trace(string, ...any)                 {}
func (nopLogger) Debug(string, ...any)                 {}
func (nopLogger) Info(string, ...any)                  {}
func (nopLogger) Warn(string, ...any)                  {}
func (nopLogger) Error(string, ...any)                 {}
func (nopLogger) Fatal(string, ...any)                 {}
func (n nopLogger) WithContext(context.Context) Logger { return n }

var defaultLogger Logger = NewBasicLogger()

var _ Logger = (*BasicLogger)(nil)
var _ FieldsLogger = (*BasicLogger)(nil)
var _ Logger = nopLogger{}
