package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the console logger (stderr, warn and above unless
// --verbose or log.level say otherwise) and, when a log file is configured,
// a JSON file sink rotated by lumberjack. The returned func flushes and
// closes both.
func newLogger(cfg LogConfig, console io.Writer) (*zap.SugaredLogger, func(), error) {
	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, nil, err
	}

	consoleEnc := zap.NewDevelopmentEncoderConfig()
	consoleEnc.TimeKey = ""
	if color.NoColor {
		consoleEnc.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		consoleEnc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEnc), zapcore.AddSync(console), level),
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotator),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closeFn := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger.Sugar(), closeFn, nil
}

func resolveLevel(cfg LogConfig) (zapcore.Level, error) {
	if cfg.Verbose {
		return zapcore.DebugLevel, nil
	}
	if cfg.Level == "" {
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zapcore.InvalidLevel, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	return level, nil
}
