// Package logging builds the zap logger used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// EnableColorOutput reports whether stream is a terminal that can show
// colored levels.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// ParseLevel maps a configured level name to a zap level. "none" is valid
// and reports enabled=false.
func ParseLevel(name string) (level zapcore.Level, enabled bool, err error) {
	switch name {
	case "none":
		return zapcore.InvalidLevel, false, nil
	case "debug":
		return zapcore.DebugLevel, true, nil
	case "info", "":
		return zapcore.InfoLevel, true, nil
	case "warn":
		return zapcore.WarnLevel, true, nil
	case "error":
		return zapcore.ErrorLevel, true, nil
	}
	return zapcore.InvalidLevel, false, fmt.Errorf("unknown log level %q", name)
}

// New returns a console logger writing to stderr at the named level.
func New(level, name string) (*zap.Logger, error) {
	return NewWithWriter(os.Stderr, EnableColorOutput(os.Stderr), level, name)
}

// NewWithWriter returns a console logger writing to w.
func NewWithWriter(w io.Writer, color bool, level, name string) (*zap.Logger, error) {
	lvl, enabled, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return zap.NewNop(), nil
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core).Named(name), nil
}
