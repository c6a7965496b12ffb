package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process logger and installs it as the zerolog global.
// Non-production environments get the human readable console writer.
func New(level, env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return install(w, level)
}

func install(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "procurement-approval").Logger()
	log.Logger = logger
	return logger
}
