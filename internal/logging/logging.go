// Package logging builds the process logger: a log/slog front end over a
// charmbracelet/log handler.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/atm/internal/config"
)

// ParseLevel maps a config level name to a log level.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return lvl, nil
}

// New returns a slog.Logger writing to w according to cfg.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	formatter := log.TextFormatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	return slog.New(handler), nil
}
