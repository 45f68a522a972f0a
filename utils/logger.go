package utils

import (
	"os"

	"go.uber.org/zap"
)

// Log stays a no-op until InitLogger runs, so packages can log from tests.
var Log = zap.NewNop().Sugar()

func InitLogger(debug bool) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = ""
	}
	logger, err := cfg.Build()
	if err != nil {
		return
	}

	Log = logger.Sugar()

	Info("Logger initialised.", "debug", debug)
}

func Info(msg string, fields ...any) {
	Log.Infow(msg, fields...)
}

func Warn(msg string, fields ...any) {
	Log.Warnw(msg, fields...)
}

func Error(msg string, fields ...any) {
	Log.Errorw("❌  "+msg, fields...)
}

func Success(msg string, fields ...any) {
	Log.Infow("✅ "+msg, fields...)
}

func Fatal(msg string, fields ...any) {
	Log.Errorw("🔥 FATAL: "+msg, fields...)
	_ = Log.Sync()
	os.Exit(1)
}
