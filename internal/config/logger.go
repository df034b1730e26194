package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/errors"
)

// NewLogger builds the root logger. When toFile is set, logs go to Log.File
// (or nowhere when it is empty) so that they never draw over the dashboard.
// The returned closer releases the log file.
func (c Config) NewLogger(toFile bool) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.Kitchen
	})
	if c.Log.JSON {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if toFile {
		if c.Log.File == "" {
			return zerolog.Nop(), closer, nil
		}
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, errors.NewConfigError("cannot open log file "+c.Log.File, err)
		}
		out, closer = f, f
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
