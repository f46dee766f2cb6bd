package logx

import (
	"io"
	"os"
	"strings"

	"github.com/coldblooded-heartbeats/storefront/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

// LoggerOpts selects the output format and verbosity of the process-wide logger.
// Level overrides the environment default when it parses as a zerolog level.
// Output defaults to stderr so command output on stdout stays clean.
type LoggerOpts struct {
	Environment core.Environment
	Level       string
	Output      io.Writer
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)
	out := o.Output
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.DebugLevel
	if o.Environment.IsProduction() {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		level = zerolog.InfoLevel
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Caller().Logger()
	}

	if raw := strings.TrimSpace(o.Level); raw != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	log.Logger = log.Logger.Level(level)
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
