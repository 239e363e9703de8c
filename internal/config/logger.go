package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig controls the file logger. The terminal belongs to the viewer,
// so there is no console output.
type LoggingConfig struct {
	Level string `koanf:"level" yaml:"level"`
	File  string `koanf:"file" yaml:"file"`
	Mode  string `koanf:"mode" yaml:"mode"`
}

func (conf *LoggingConfig) validate() error {
	switch conf.Level {
	case "none", "normal", "debug":
	default:
		return fmt.Errorf("invalid log.level %q: must be one of none, normal, debug", conf.Level)
	}
	switch conf.Mode {
	case "", "append", "overwrite":
	default:
		return fmt.Errorf("invalid log.mode %q: must be append or overwrite", conf.Mode)
	}
	if conf.Level != "none" && conf.File == "" {
		return fmt.Errorf("log.file is required when logging is enabled")
	}
	return nil
}

// Prepare returns the program logger and a function that flushes and closes
// it. With level "none" the logger discards everything.
func (conf *LoggingConfig) Prepare(verbose bool) (*zap.Logger, func(), error) {
	level := conf.Level
	if verbose {
		level = "debug"
	}

	var logLevel zap.AtomicLevel
	switch level {
	case "debug":
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "normal":
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return zap.NewNop(), func() {}, nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if conf.Mode == "overwrite" {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(conf.File, flags, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to access log destination (%s): %w", conf.File, err)
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(f), logLevel)
	logger := zap.New(core, zap.AddCaller()).Named("paperview")
	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}
