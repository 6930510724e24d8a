package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a new structured logger. Production logs are JSON; other
// environments get a colored console encoder. An empty level keeps the
// environment default (info in production, debug elsewhere).
func New(env, level string) (*zap.Logger, error) {
	// Always log to stdout for container compatibility
	return build(env, level, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

// NewWithDefaults creates a logger from SERVER_ENV and LOG_LEVEL, falling
// back to a production logger if those are invalid.
func NewWithDefaults() *zap.Logger {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	logger, err := New(env, os.Getenv("LOG_LEVEL"))
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	return logger
}

func build(env, level string, out, errOut zapcore.WriteSyncer) (*zap.Logger, error) {
	var (
		encoder zapcore.Encoder
		minimum zapcore.Level
	)

	if env == "production" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		minimum = zapcore.InfoLevel
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
		minimum = zapcore.DebugLevel
	}

	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		minimum = parsed
	}

	core := zapcore.NewCore(encoder, out, zap.NewAtomicLevelAt(minimum))

	return zap.New(core,
		zap.ErrorOutput(errOut),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}
