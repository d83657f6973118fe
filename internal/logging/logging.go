// Package logging builds the zap loggers used by p4simp.
package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level, encoding and destination of log output.
type Config struct {
	Level  string    // debug, info, warn or error; warn if empty
	Format string    // console, json or logfmt; console if empty
	Writer io.Writer // os.Stderr if nil
}

// New returns a logger for c.
func New(c Config) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, errors.Wrapf(err, "log level %q", c.Level)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"

	var enc zapcore.Encoder
	switch c.Format {
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		enc = zapcore.NewJSONEncoder(encoderConfig)
	case "logfmt":
		enc = zaplogfmt.NewEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("unknown log format %q", c.Format)
	}

	core := zapcore.NewCore(enc, writeSyncer(c.Writer), level)
	return zap.New(core).Named("p4simp"), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func writeSyncer(w io.Writer) zapcore.WriteSyncer {
	switch t := w.(type) {
	case nil:
		return zapcore.Lock(os.Stderr)
	case *os.File:
		return zapcore.Lock(t)
	case zapcore.WriteSyncer:
		return t
	default:
		return zapcore.AddSync(w)
	}
}
