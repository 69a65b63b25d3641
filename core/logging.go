package core

import (
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/encodeous/tint"
	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"
)

type LogOptions struct {
	Verbose bool
	JSON    bool   // structured output on stderr instead of the console handler
	Path    string // optional log file, appended to
	Prefix  string // console line prefix
}

// NewLogger builds the console logger, fanned out to the log file when one
// is configured. The returned closer releases the log file.
func NewLogger(opts LogOptions) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlers := make([]slog.Handler, 0)
	if opts.JSON {
		handlers = append(handlers, slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	} else {
		handlers = append(handlers,
			tint.NewHandler(os.Stderr, &tint.Options{
				Level:        level,
				AddSource:    false,
				CustomPrefix: opts.Prefix,
				ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
					if attr.Key == "time" {
						return slog.Attr{}
					}
					return attr
				},
			}))
	}

	var closer io.Closer = nopCloser{}
	if opts.Path != "" {
		err := os.MkdirAll(path.Dir(opts.Path), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// WithRun tags every record of one generation run with a fresh run id.
func WithRun(log *slog.Logger) *slog.Logger {
	return log.With("run", uuid.NewString())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
