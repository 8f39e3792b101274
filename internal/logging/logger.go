// Package logging はzapロガーの組み立て
package logging

import (
	"strings"

	"albummai/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogLevel = "info"

// New は LOG_LEVEL / LOG_FORMAT からロガーを作る（json か console）
func New(cfg config.Log) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(cfg.Level)))); err != nil {
		// 未設定・不正な値は info
		_ = level.UnmarshalText([]byte(defaultLogLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey: "message",
		TimeKey:    "timestamp",
		LevelKey:   "severity",
		EncodeTime: zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(strings.ToUpper(level.String()))
		},
		EncodeCaller:  zapcore.ShortCallerEncoder,
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
	}

	encoding := "json"
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		encoding = "console"
	}

	zc := zap.Config{
		Level:             level,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return zc.Build()
}
