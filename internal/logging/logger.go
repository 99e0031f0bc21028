// Package logging builds the zap loggers used by the CLI and the library.
package logging

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Console verbosity levels.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// ErrUnknownLevel indicates a verbosity level other than none, normal or debug.
var ErrUnknownLevel = errors.New("unknown log level")

// appName names the root logger.
const appName = "md2pptx"

// Sinks are the console destinations of a logger.
type Sinks struct {
	Out   zapcore.WriteSyncer // info and below
	Err   zapcore.WriteSyncer // error and above
	Color bool
}

// New returns the console logger for level, writing info to stdout and
// errors to stderr. Colors are enabled when stdout is a terminal.
func New(level string) (*zap.Logger, error) {
	return NewWithSinks(level, Sinks{
		Out:   zapcore.Lock(os.Stdout),
		Err:   zapcore.Lock(os.Stderr),
		Color: EnableColorOutput(os.Stdout),
	})
}

// NewWithSinks returns a console logger for level writing to sinks.
// Level "none" returns a no-op logger.
func NewWithSinks(level string, sinks Sinks) (*zap.Logger, error) {
	var minLevel zapcore.Level
	switch level {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelNormal, "":
		minLevel = zapcore.InfoLevel
	case LevelDebug:
		minLevel = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if sinks.Color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minLevel <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(ec), sinks.Out, lowPriority),
		zapcore.NewCore(newEncoder(ec), sinks.Err, highPriority),
	)
	return zap.New(core).Named(appName), nil
}

// EnableColorOutput reports whether stream is an interactive terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// When logging errors to console, do not output the verbose message.

type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
