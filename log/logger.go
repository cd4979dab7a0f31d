// Package log provides structured logging with graph/node context.
//
// Two logger variants are available:
//   - Logger: non-sugared zap.Logger for core engine paths (high performance,
//     structured fields)
//   - SugaredLogger: printf-style logging for CLI/debug surfaces (convenience
//     over performance)
//
// Use Logger.Sugar() to obtain a SugaredLogger when needed.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tapline-dev/tapline/types"
)

// Logger provides structured logging with graph/node context. Use this for
// core engine paths where performance matters. For CLI/debug surfaces, use
// Sugar() to get a SugaredLogger.
type Logger struct {
	zap *zap.Logger
}

// SugaredLogger provides printf-style logging for CLI and debug surfaces.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger creates a new logger scoped to graphID. Output defaults to
// os.Stderr.
func NewLogger(graphID string) *Logger {
	return newLoggerWithWriter(graphID, os.Stderr)
}

// WithOutput returns a new logger with a different output writer.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

// WithNode returns a logger with node_id/node_kind fields attached, for log
// statements originating inside a specific operator's Push.
func (l *Logger) WithNode(kind types.NodeKind, id types.NodeID) *Logger {
	return &Logger{zap: l.zap.With(zap.String("node_kind", string(kind)), zap.String("node_id", string(id)))}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

func newLoggerWithWriter(graphID string, w io.Writer) *Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(w), zapcore.DebugLevel)
	zapLogger := zap.New(core).With(zap.String("graph_id", graphID))
	return &Logger{zap: zapLogger}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) { l.zap.Debug(message, zap.Any("fields", fields)) }

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) { l.zap.Info(message, zap.Any("fields", fields)) }

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) { l.zap.Warn(message, zap.Any("fields", fields)) }

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) { l.zap.Error(message, zap.Any("fields", fields)) }

// Sugar returns a SugaredLogger for printf-style logging.
func (l *Logger) Sugar() *SugaredLogger { return &SugaredLogger{sugar: l.zap.Sugar()} }

// Infof logs an info message with printf-style formatting.
func (s *SugaredLogger) Infof(template string, args ...any) { s.sugar.Infof(template, args...) }

// Warnf logs a warning message with printf-style formatting.
func (s *SugaredLogger) Warnf(template string, args ...any) { s.sugar.Warnf(template, args...) }

// Errorf logs an error message with printf-style formatting.
func (s *SugaredLogger) Errorf(template string, args ...any) { s.sugar.Errorf(template, args...) }

// With returns a SugaredLogger with additional context fields.
func (s *SugaredLogger) With(args ...any) *SugaredLogger { return &SugaredLogger{sugar: s.sugar.With(args...)} }
