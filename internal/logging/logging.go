// Package logging builds the CLI logger.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aretw0/assistant/internal/config"
)

// New returns a logger writing human-readable lines to console and, when
// cfg.File is set, JSON lines to a rotated file. The returned close function
// flushes and releases the file.
func New(cfg config.LogConfig, console io.Writer) (*zap.Logger, func() error) {
	if console == nil {
		console = os.Stderr
	}

	level := zap.InfoLevel
	if cfg.Verbose {
		level = zap.DebugLevel
	}

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(console)),
		level,
	)

	if cfg.File == "" {
		l := zap.New(consoleCore)
		return l, func() error { return ignoreSyncErr(l.Sync()) }
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     30,
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zap.DebugLevel,
	)

	l := zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller())
	return l, func() error {
		_ = ignoreSyncErr(l.Sync())
		return rotator.Close()
	}
}

// ignoreSyncErr drops the error zap reports when syncing a terminal.
func ignoreSyncErr(err error) error {
	if err == nil {
		return nil
	}
	if pathErr, ok := err.(*os.PathError); ok && pathErr.Op == "sync" {
		return nil
	}
	return err
}
