package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapCore is a zapcore.Core that forwards entries to a Logger.
type zapCore struct {
	logger *Logger
}

// NewZapCore returns a zapcore.Core writing through logger.
func NewZapCore(logger *Logger) zapcore.Core {
	return &zapCore{logger: logger}
}

// NewZapLogger returns a *zap.Logger writing through logger. Solvers take
// this so their entries share the process log stream.
func NewZapLogger(logger *Logger) *zap.Logger {
	return zap.New(NewZapCore(logger))
}

func fromZapLevel(l zapcore.Level) Level {
	switch {
	case l <= zapcore.DebugLevel:
		return DebugLevel
	case l == zapcore.InfoLevel:
		return InfoLevel
	case l == zapcore.WarnLevel:
		return WarnLevel
	default:
		return ErrorLevel
	}
}

// encodeFields renders zap fields with zap's own map encoder, so every field
// type keeps its natural JSON form.
func encodeFields(fields []zapcore.Field) Fields {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return Fields(enc.Fields)
}

func (c *zapCore) Enabled(l zapcore.Level) bool {
	return c.logger.Enabled(fromZapLevel(l))
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	return &zapCore{logger: c.logger.WithFields(encodeFields(fields))}
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	f := encodeFields(fields)
	if ent.LoggerName != "" {
		f["logger"] = ent.LoggerName
	}
	c.logger.write(fromZapLevel(ent.Level), ent.Message, []Fields{f})
	return nil
}

func (c *zapCore) Sync() error { return nil }
