package command

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joeycumines/go-goap/internal/config"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logConfig holds resolved logging configuration.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
	logger  *slog.Logger
}

// Close releases the log file, if any.
func (lc logConfig) Close() error {
	if lc.logFile == nil {
		return nil
	}
	return lc.logFile.Close()
}

// resolveLogConfig resolves log configuration from flags and config defaults.
// Flag values take precedence; config values are used when flags are empty.
// Files get rotated JSON output; otherwise records go to stderr as text when
// it is a terminal and JSON when it is not, unless log.format says otherwise.
// The caller must Close the returned logConfig.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config, stderr io.Writer) (logConfig, error) {
	var lc logConfig
	var lcfg config.LogConfig
	if cfg != nil {
		lcfg = cfg.Log
	}

	// Resolve log level: flag → config → "info".
	levelStr := flagLevel
	if levelStr == "" {
		levelStr = lcfg.Level
	}
	level, err := config.ParseLevel(levelStr)
	if err != nil {
		return lc, err
	}
	lc.level = level
	opts := &slog.HandlerOptions{Level: level}

	// Resolve log path: flag → config → "".
	logPath := flagPath
	if logPath == "" {
		logPath = lcfg.File
	}

	if logPath != "" {
		maxSizeMB := lcfg.MaxSizeMB
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxFiles := lcfg.MaxFiles
		if maxFiles < 0 {
			maxFiles = 5
		}
		// Zero maxFiles keeps every backup.
		lc.logFile = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxSizeMB,
			MaxBackups: maxFiles,
		}
		lc.logger = slog.New(slog.NewJSONHandler(lc.logFile, opts))
		return lc, nil
	}

	switch strings.ToLower(lcfg.Format) {
	case "text":
		lc.logger = slog.New(slog.NewTextHandler(stderr, opts))
	case "json":
		lc.logger = slog.New(slog.NewJSONHandler(stderr, opts))
	default:
		if isTerminal(stderr) {
			lc.logger = slog.New(slog.NewTextHandler(stderr, opts))
		} else {
			lc.logger = slog.New(slog.NewJSONHandler(stderr, opts))
		}
	}
	return lc, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
