package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a zerolog Logger writing to w.
// APP_ENV=dev (or development) uses a human-friendly console writer; anything else emits JSON lines.
func New(w io.Writer, env, level string, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "ts"

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Init builds a stdout logger and installs it as the global zerolog logger.
// It is also the fallback for log.Ctx when a context carries no logger.
func Init(env, level string, loc *time.Location) zerolog.Logger {
	l := New(os.Stdout, env, level, loc)
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}
