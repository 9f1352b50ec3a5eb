package zerologadapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-twcomposer/logger"
)

// Options describes logger configuration supplied at creation time.
type Options struct {
	Level         string
	HumanReadable bool
	Writer        io.Writer
}

// Logger backs logger.Logger with zerolog.
type Logger struct {
	base zerolog.Logger
}

// New creates a configured Logger instance based on Options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var output io.Writer = writer
	if opts.HumanReadable {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	return &Logger{base: zerolog.New(output).Level(level).With().Timestamp().Logger()}, nil
}

// Wrap adapts an existing zerolog logger.
func Wrap(base zerolog.Logger) *Logger {
	return &Logger{base: base}
}

// WithFields implements logger.FieldsLogger.
func (l *Logger) WithFields(fields map[string]any) logger.Logger {
	if l == nil {
		return logger.Nop()
	}
	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

// WithContext implements logger.Logger. A logger stored on ctx with
// zerolog's WithContext takes precedence.
func (l *Logger) WithContext(ctx context.Context) logger.Logger {
	if l == nil || ctx == nil {
		return l
	}
	if stored := zerolog.Ctx(ctx); stored != nil && stored.GetLevel() != zerolog.Disabled {
		return &Logger{base: *stored}
	}
	return l
}

func (l *Logger) Trace(msg string, args ...any) { l.log(zerolog.TraceLevel, msg, args) }
func (l *Logger) Debug(msg string, args ...any) { l.log(zerolog.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.log(zerolog.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(zerolog.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.log(zerolog.ErrorLevel, msg, args) }

// Fatal logs at fatal level without exiting the process.
func (l *Logger) Fatal(msg string, args ...any) { l.log(zerolog.FatalLevel, msg, args) }

func (l *Logger) log(level zerolog.Level, msg string, args []any) {
	if l == nil {
		return
	}
	event := l.base.WithLevel(level)
	if event == nil {
		return
	}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			event = event.Bool(key, true)
			break
		}
		if err, ok := args[i+1].(error); ok {
			event = event.AnErr(key, err)
			continue
		}
		event = event.Interface(key, args[i+1])
	}
	event.Msg(msg)
}

var _ logger.Logger = (*Logger)(nil)
var _ logger.FieldsLogger = (*Logger)(nil)
