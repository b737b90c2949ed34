// Package obslog owns the process-wide zap logger.
package obslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "detailed-moves"

// global logger, a Nop until initialised
var (
	globalLogger *zap.Logger = zap.NewNop()
)

// L returns the global logger.
func L() *zap.Logger { return globalLogger }

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger { return globalLogger.Named(component) }

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() { _ = globalLogger.Sync() }

// Settings mirror the LOG_* environment variables.
type Settings struct {
	Level    zapcore.Level
	Console  bool
	ToFile   bool
	FilePath string
	Format   string // legacy | json | console
	Caller   bool
}

func SettingsFromEnv() Settings {
	format := strings.ToLower(strings.TrimSpace(getenvDefault("LOG_FORMAT", "legacy")))
	if format != "legacy" && format != "json" && format != "console" {
		format = "legacy"
	}
	return Settings{
		Level:    parseLevel(getenvDefault("LOG_LEVEL", "info")),
		Console:  strings.EqualFold(getenvDefault("LOG_TO_CONSOLE", "true"), "true"),
		ToFile:   strings.EqualFold(getenvDefault("LOG_TO_FILE", "true"), "true"),
		FilePath: strings.TrimSpace(getenvDefault("LOG_FILE", filepath.Join("logs", appName+".log"))),
		Format:   format,
		Caller:   strings.EqualFold(getenvDefault("LOG_CALLER", "false"), "true"),
	}
}

// InitFromEnv builds the global logger from the LOG_* environment.
func InitFromEnv() error {
	logger, err := Build(SettingsFromEnv(), os.Stdout)
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// Build assembles a logger writing to console (stdout) and/or a log file.
func Build(s Settings, stdout io.Writer) (*zap.Logger, error) {
	var cores []zapcore.Core

	if s.Console {
		cores = append(cores, zapcore.NewCore(encoderFor(s.Format), zapcore.AddSync(stdout), s.Level))
	}

	if s.ToFile {
		if err := ensureDir(filepath.Dir(s.FilePath)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(s.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoderFor(s.Format), zapcore.AddSync(f), s.Level))
	}

	if len(cores) == 0 {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(stdout), s.Level))
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("app", appName))
	if s.Caller || s.Format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	return logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func encoderFor(format string) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig(false))
	default:
		return zapcore.NewConsoleEncoder(legacyEncoderConfig())
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// encoder configs
func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
