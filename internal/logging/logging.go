// Package logging builds the zerolog logger used for diagnostics.
// Reports go to stdout; logs never do.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/phobologic/wordstat/internal/config"
)

// New returns a logger for cfg writing console output to stderr.
// The returned closer releases the log file, if one was opened.
//
// Level precedence: quiet > debug > verbose > cfg.Log.Level.
func New(cfg *config.Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	if cfg.App.Quiet {
		return zerolog.Nop(), nopCloser{}, nil
	}

	level := ParseLevel(cfg.Log.Level)
	switch {
	case cfg.App.Debug:
		level = zerolog.DebugLevel
	case cfg.App.Verbose:
		level = zerolog.InfoLevel
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)
	switch strings.ToLower(cfg.Log.Mode) {
	case "file", "both":
		fw, err := fileWriter(cfg.Log)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, fw)
		closer = fw
		if strings.EqualFold(cfg.Log.Mode, "both") {
			writers = append(writers, consoleWriter(stderr, cfg.Log.JSON))
		}
	default:
		writers = append(writers, consoleWriter(stderr, cfg.Log.JSON))
	}

	out := writers[0]
	if len(writers) > 1 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.App.Debug {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), closer, nil
}

func consoleWriter(w io.Writer, useJSON bool) io.Writer {
	if useJSON {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
}

func fileWriter(cfg config.LogConfig) (*lumberjack.Logger, error) {
	if cfg.FilePath == "" {
		return nil, errors.New("log file mode requires log.file_path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   true,
	}, nil
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean warn.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.WarnLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
