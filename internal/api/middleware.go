package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/sensorctl/internal/logging"
)

// HTTPLoggingMiddleware logs each request at a level chosen by its status.
func HTTPLoggingMiddleware(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	logger := logging.GetLogger("http")

	method := ctx.Method()
	attrs := []slog.Attr{
		slog.String("method", method),
		slog.String("path", ctx.URL().Path),
		slog.String("remote_addr", ctx.RemoteAddr()),
	}
	if q := ctx.URL().RawQuery; q != "" {
		attrs = append(attrs, slog.String("query", q))
	}

	next(ctx)

	status := ctx.Status()
	attrs = append(attrs,
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)

	level := slog.LevelInfo
	switch {
	case method == http.MethodOptions:
		level = slog.LevelDebug
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}
	logger.LogAttrs(ctx.Context(), level, "HTTP request completed", attrs...)
}

type corsConfig struct {
	origin  string
	methods string
	headers string
	maxAge  string
}

func defaultCORS() corsConfig {
	return corsConfig{
		origin:  "*",
		methods: strings.Join([]string{"GET", "PUT", "POST", "OPTIONS"}, ", "),
		headers: strings.Join([]string{"Content-Type", "Authorization", "Accept", "Origin"}, ", "),
		maxAge:  strconv.Itoa(86400),
	}
}

func (c corsConfig) apply(set func(key, value string)) {
	set("Access-Control-Allow-Origin", c.origin)
	set("Access-Control-Allow-Methods", c.methods)
	set("Access-Control-Allow-Headers", c.headers)
	set("Access-Control-Max-Age", c.maxAge)
}

func corsMiddleware(c corsConfig) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		c.apply(ctx.SetHeader)
		if ctx.Method() == http.MethodOptions {
			ctx.SetStatus(http.StatusNoContent)
			return
		}
		next(ctx)
	}
}

// addCORSHandler answers preflight requests, which never reach the Huma
// middleware chain because no operation is routed for OPTIONS.
func addCORSHandler(mux *http.ServeMux, c corsConfig) {
	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		c.apply(w.Header().Set)
		w.WriteHeader(http.StatusNoContent)
	})
}
