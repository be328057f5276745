// Package logger holds the process-wide zerolog instance. Production
// runs JSON to stdout; local development defaults to the console writer.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/syedmuhammadazwar/EasyKey-Backend/internal/pkg/context"
)

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter reads LOG_LEVEL and LOG_FORMAT ("json" or "console")
// from the environment; unknown values fall back to info/console.
func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	base := zerolog.New(w)
	if os.Getenv("LOG_FORMAT") != "json" {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	}
	Logger = base.With().Timestamp().Str("service", "easykey").Logger().Level(level)

	zlog.Logger = Logger
}

// WithCtx returns the logger enriched with the request id, if one is set.
func WithCtx(ctx context.Context) *zerolog.Logger {
	if id := appCtx.GetRequestID(ctx); id != "" {
		l := Logger.With().Str("request_id", id).Logger()
		return &l
	}
	return &Logger
}
