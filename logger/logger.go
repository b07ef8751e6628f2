package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
)

// Init builds the global logger. Production JSON by default,
// human-readable when LOG_FORMAT=console.
func Init() {
	once.Do(func() {
		var err error
		if os.Getenv("LOG_FORMAT") == "console" {
			cfg := zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			log, err = cfg.Build()
		} else {
			log, err = zap.NewProduction()
		}
		if err != nil {
			log = zap.NewNop()
		}
	})
}

// L returns the global logger instance.
func L() *zap.Logger {
	if log == nil {
		Init()
	}
	return log
}

func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { L().Fatal(msg, fields...) }
