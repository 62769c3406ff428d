// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package log provides structured logging for m3umine, built on zerolog.
package log

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrInvalidLogLevel is returned when a level string cannot be parsed.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // "debug", "info", "warn", "error" ...
	Output  io.Writer // defaults to os.Stdout
	Quiet   bool      // raises the effective floor to warn
	Console bool      // human-readable console writer instead of JSON
}

var (
	mu          sync.RWMutex
	base        zerolog.Logger
	initialized bool
)

// Configure initializes the global zerolog logger. Safe to call once at
// process startup before any Derive/WithComponent call.
func Configure(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return ErrInvalidLogLevel
		}
		level = parsed
	}
	if cfg.Quiet && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}
	if cfg.Console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	base = zerolog.New(writer).With().
		Timestamp().
		Str("service", "m3umine").
		Logger()
	log.Logger = base
	initialized = true
	return nil
}

func ensureInitialized() {
	mu.RLock()
	ok := initialized
	mu.RUnlock()
	if ok {
		return
	}
	_ = Configure(Config{})
}

// L returns the base logger.
func L() *zerolog.Logger {
	ensureInitialized()
	mu.RLock()
	defer mu.RUnlock()
	return &base
}

// WithComponent returns a logger derived from the base logger with a
// "component" field set, the way each package identifies itself in logs.
func WithComponent(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

// Derive returns a child logger adding the given key/value pairs.
func Derive(parent zerolog.Logger, kv map[string]string) zerolog.Logger {
	ctx := parent.With()
	for k, v := range kv {
		ctx = ctx.Str(k, v)
	}
	return ctx.Logger()
}
