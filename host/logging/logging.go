// Package logging configures the global zerolog logger for the host tool.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// File receives every log line, rotated by size; empty disables it
	File      string
	MaxSizeMB int

	// Console mirrors logs to stderr in human readable form
	Console bool
	Debug   bool
}

// Init installs the global logger. Extra writers are appended after the
// file and console outputs.
func Init(opts Options, writers ...io.Writer) error {
	var logWriters []io.Writer

	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return err
			}
		}
		logWriters = append(logWriters, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: 2,
		})
	}

	if opts.Console {
		logWriters = append(logWriters, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	logWriters = append(logWriters, writers...)
	if len(logWriters) == 0 {
		logWriters = append(logWriters, io.Discard)
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(io.MultiWriter(logWriters...)).
		With().Timestamp().Caller().Logger()

	return nil
}
