package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger пишет в stdout и, если задан filePath, дополнительно в файл.
func NewLogger(level string, filePath string) *zap.Logger {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputs := []string{"stdout"}
	if filePath != "" {
		outputs = append(outputs, filePath)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Encoding:         "console",
		Level:            atomicLevel,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
