// Package logging builds the session logger: structured output to a rolling
// file, or stderr when no file is configured. The terminal frontend owns the
// screen, so file logging is the default in interactive modes.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a SugaredLogger and a flush function for shutdown. filePath
// selects a rolling log file; an empty path logs to stderr instead.
func New(filePath string, debug bool) (*zap.SugaredLogger, func()) {
	var ws zapcore.WriteSyncer
	if filePath != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, level)
	logger := zap.New(core, zap.AddCaller())
	sugar := logger.Sugar()
	return sugar, func() { _ = sugar.Sync() }
}
