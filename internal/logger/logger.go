package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/compoundjoy/server/internal/ctxkeys"
	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors are also sent to Sentry when a DSN is set. The returned func
// flushes pending Sentry events and should be deferred by main.
func Init(isDev bool, sentryDSN, environment string) func() {
	return initWith(os.Stdout, isDev, sentryDSN, environment)
}

func initWith(w io.Writer, isDev bool, sentryDSN, environment string) func() {
	var handlers []slog.Handler

	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	flush := func() {}
	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			Environment:      environment,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)

	return flush
}

// FromContext returns the default logger annotated with the request id and
// caller found in ctx.
func FromContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if id := ctxkeys.RequestID(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if userID := ctxkeys.UserID(ctx); userID != "" {
		l = l.With("user_id", userID)
	}
	return l
}
