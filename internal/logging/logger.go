// Package logging provides config-driven categorized structured logging.
// Each subsystem asks for its category logger with Get; output goes to
// stderr and, when a file is configured, to a size-rotated log file.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup and wiring
	CategoryPerception Category = "perception" // Text -> canonical action
	CategoryResolver   Category = "resolver"   // Fuzzy item resolution
	CategoryExecutor   Category = "executor"   // Action execution
	CategoryModel      Category = "model"      // Language-model calls
	CategoryStore      Category = "store"      // Sidecar metadata
	CategoryAPI        Category = "api"        // HTTP surface
	CategoryFS         Category = "fs"         // Filesystem walks, cache, watcher
)

// Config controls logger construction.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // optional log file, rotated by size
	MaxSizeMB  int             // rotation threshold
	MaxBackups int             // rotated files kept
	MaxAgeDays int             // rotated files max age
	DebugMode  bool            // when false, debug entries are dropped regardless of Level
	Categories map[string]bool // explicit per-category switches; missing means enabled
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*zap.Logger)
	rotator    *lumberjack.Logger
)

// Initialize builds the root logger from cfg. Safe to call more than once;
// the latest configuration wins.
func Initialize(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	if !cfg.DebugMode && level < zapcore.InfoLevel {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "console") || strings.EqualFold(cfg.Format, "text") {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	var rot *lumberjack.Logger
	if cfg.File != "" {
		rot = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 15),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		fileEnc := zapcore.NewJSONEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(rot), level))
	}

	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
	}
	rotator = rot
	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	categories = cfg.Categories
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// UseLogger replaces the root logger. Intended for tests and embedding.
func UseLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	base = l
	loggers = make(map[Category]*zap.Logger)
}

// Get returns the logger for category. Before Initialize it is a no-op
// logger, so packages can log unconditionally.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	var l *zap.Logger
	if enabled, ok := categories[string(category)]; ok && !enabled {
		l = zap.NewNop()
	} else {
		l = base.Named(string(category))
	}
	loggers[category] = l
	return l
}

// IsCategoryEnabled reports whether category produces output.
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Sync flushes buffered entries and closes the rotated file, if any.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
	if rotator != nil {
		_ = rotator.Close()
	}
}

func parseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
