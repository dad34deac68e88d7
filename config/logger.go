package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prepare returns the configured zap logger. Everything goes to stderr so
// snapshot output piped from stdout stays clean.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(ec)

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	var lowPriority zap.LevelEnablerFunc
	switch conf.Console {
	case "normal":
		lowPriority = func(lvl zapcore.Level) bool {
			return zapcore.InfoLevel <= lvl && lvl < zapcore.ErrorLevel
		}
	case "debug":
		lowPriority = func(lvl zapcore.Level) bool {
			return zapcore.DebugLevel <= lvl && lvl < zapcore.ErrorLevel
		}
	case "", "none":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown console log level '%s'", conf.Console)
	}

	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lowPriority),
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), highPriority),
	)
	return zap.New(core).Named("snapcss"), nil
}
