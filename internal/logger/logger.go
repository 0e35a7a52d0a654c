// Package logger holds the package-global structured logger used by the
// memory backends and the memctl command.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// L is the global logger instance. It discards all output by default so the
// library stays silent unless a program opts in with Init.
var L *slog.Logger = slog.New(slog.DiscardHandler)

// logFile is the file opened for LogDir, closed by the next Init.
var logFile *os.File

const (
	logPrefix = "memctl-"
	logSuffix = ".log"
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Level   slog.Level // Minimum log level
	Writer  io.Writer  // Destination for text output; takes precedence over LogDir
	LogDir  string     // Directory for JSON log files when Writer is nil
}

// Init configures logging. Call from main() before any log calls.
// If opts.Enabled is false, all log output is discarded.
func Init(opts Options) error {
	if err := closeLogFile(); err != nil {
		return err
	}

	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		return nil
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.Writer != nil {
		L = slog.New(slog.NewTextHandler(opts.Writer, handlerOpts))
		return nil
	}

	if opts.LogDir == "" {
		L = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts))
		return nil
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return err
	}

	filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	logFile = f
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return nil
}

func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	L = slog.New(slog.DiscardHandler)
	return err
}
