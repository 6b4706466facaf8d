// Package logs builds the server's zap logger.
package logs

import (
	"io"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/napolitain/lastwar-buildtime/internal/config"
)

// Logger bundles the zap logger with the level that config reloads adjust
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel
	file  io.Closer
}

// New builds a logger writing coloured console lines to stderr and, when
// cfg.File is set, JSON lines into a lumberjack-rotated file.
func New(appName string, cfg config.LogConfig) *Logger {
	return newWithConsole(appName, cfg, zapcore.Lock(os.Stderr))
}

func newWithConsole(appName string, cfg config.LogConfig, console zapcore.WriteSyncer) *Logger {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	// No ANSI colour codes in the file
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	fileCfg := encoderCfg
	fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), console, level)

	var file io.Closer
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		file = rotator
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rotator), level),
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	return &Logger{
		Logger: zap.New(core, opts...).Named(appName),
		Level:  level,
		file:   file,
	}
}

// ParseLevel parses a level name case-insensitively, falling back to info
func ParseLevel(s string) zapcore.Level {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// SetLevel changes the level of every sink at once
func (l *Logger) SetLevel(s string) {
	l.Level.SetLevel(ParseLevel(s))
}

// Close flushes buffered entries and closes the rotated file, if any
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
