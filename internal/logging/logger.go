// Package logging provides the process-wide JSON logger, a zap bridge so
// library code logging through *zap.Logger ends up in the same stream, and
// HTTP request logging middleware.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level is the severity of an entry.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
}

// ParseLevel maps a case-insensitive name to a Level. Unknown names give InfoLevel.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Fields are structured key/value pairs attached to an entry.
type Fields map[string]interface{}

// Logger writes one JSON object per line. Loggers derived with WithFields
// share the underlying writer and are safe for concurrent use.
type Logger struct {
	level  Level
	sink   *sink
	fields Fields
}

type sink struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New returns a logger writing entries at or above level to w.
func New(level Level, w io.Writer) *Logger {
	return &Logger{
		level:  level,
		sink:   &sink{w: w, now: time.Now},
		fields: Fields{},
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(ErrorLevel+1, io.Discard)
}

// Enabled reports whether entries at lvl are written.
func (l *Logger) Enabled(lvl Level) bool {
	return lvl >= l.level
}

// WithFields returns a child logger that adds fields to every entry.
func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{level: l.level, sink: l.sink, fields: merged}
}

// WithField is WithFields for a single pair.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

// WithError attaches err under the "error" key.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.write(DebugLevel, msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields) { l.write(InfoLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields) { l.write(WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields ...Fields) { l.write(ErrorLevel, msg, fields) }

func (l *Logger) write(lvl Level, msg string, extra []Fields) {
	if !l.Enabled(lvl) {
		return
	}

	entry := make(map[string]interface{}, len(l.fields)+4)
	for k, v := range l.fields {
		entry[k] = jsonSafe(v)
	}
	for _, f := range extra {
		for k, v := range f {
			entry[k] = jsonSafe(v)
		}
	}
	entry["timestamp"] = l.sink.now().UTC().Format(time.RFC3339Nano)
	entry["level"] = lvl.String()
	entry["message"] = msg

	line, err := json.Marshal(entry)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"message":%q,"marshal_error":%q}`, lvl, msg, err))
	}
	line = append(line, '\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = l.sink.w.Write(line)
}

// jsonSafe renders non-finite floats as strings, which encoding/json rejects.
func jsonSafe(v interface{}) interface{} {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return v
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a discarding logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Discard()
}
