package config

import (
	"errors"
	"io"
	"log/slog"
	"strings"
)

// SlogLevel maps Level to a slog.Level.
func (s LogSettings) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s.Level))); err != nil {
		return 0, errors.Join(ErrUnknownLogLevel, err)
	}

	return level, nil
}

// NewSlogHandler creates a text or JSON handler writing to w, as selected by the settings.
func NewSlogHandler(w io.Writer, settings LogSettings) (slog.Handler, error) {
	level, err := settings.SlogLevel()
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}

	switch settings.Format {
	case LogFormatJSON:
		return slog.NewJSONHandler(w, options), nil
	case LogFormatText:
		return slog.NewTextHandler(w, options), nil
	default:
		return nil, ErrUnknownLogFormat
	}
}
