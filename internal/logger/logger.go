// Package logger provides structured logging using zap. Components receive
// named child loggers through their WithLogger options.
package logger

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log *zap.Logger

// Sugar is the sugared logger for convenient logging.
var Sugar *zap.SugaredLogger

// level backs Log so SetLevel can change verbosity at runtime.
var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// ErrBadFormat is returned for an unknown output format.
var ErrBadFormat = errors.New("unknown log format")

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Config describes where and how to log.
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // console or json
	Console bool   // Write to stderr
	File    FileConfig
}

// Init initializes console logging at level, plus file output when logFile
// is set.
func Init(level string, logFile string) error {
	cfg := Config{Level: level, Format: FormatConsole, Console: true}
	if logFile != "" {
		cfg.File = DefaultFileConfig(logFile)
	}
	return InitWithConfig(cfg)
}

// InitWithConfig installs the global logger described by cfg.
func InitWithConfig(cfg Config) error {
	lvl, err := zapcore.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	format := orDefault(cfg.Format, FormatConsole)
	if format != FormatConsole && format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrBadFormat, cfg.Format)
	}
	level.SetLevel(lvl)

	var cores []zapcore.Core
	if cfg.Console {
		enc := encoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		if format == FormatConsole {
			enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format, enc), zapcore.AddSync(os.Stderr), level))
	}

	if cfg.File.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format, encoderConfig()), zapcore.AddSync(fileWriter), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func newEncoder(format string, cfg zapcore.EncoderConfig) zapcore.Encoder {
	if format == FormatJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// SetLevel changes the level of the global logger.
func SetLevel(l string) error {
	lvl, err := zapcore.ParseLevel(l)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

// Named returns a child of the global logger for one component, or a no-op
// logger when logging has not been initialized.
func Named(component string) *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Named("").Info(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Named("").Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	if Log == nil {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
	Log.Fatal(msg, fields...)
}
