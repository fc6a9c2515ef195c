package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/ytsearch/internal/logger"
)

// accessLog attaches a request-scoped logger carrying request_id and writes
// one line per request once the handler returns. 5xx lines log at error, 4xx at warn.
func accessLog(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := chiMiddleware.GetReqID(r.Context())
			if id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			reqLog := base.With(zap.String("request_id", id))
			r = r.WithContext(logger.ContextWithLogger(r.Context(), reqLog))

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := zapcore.InfoLevel
			switch {
			case status >= http.StatusInternalServerError:
				level = zapcore.ErrorLevel
			case status >= http.StatusBadRequest:
				level = zapcore.WarnLevel
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("bytes", ww.BytesWritten()),
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				fields = append(fields, zap.String("route", rctx.RoutePattern()))
			}
			if tokens := ww.Header().Get("X-Embedding-Tokens"); tokens != "" {
				fields = append(fields, zap.String("embedding_tokens", tokens))
			}
			reqLog.Log(level, "http_request", fields...)
		})
	}
}

// recoverJSON turns a handler panic into the JSON 500 envelope.
// http.ErrAbortHandler is re-raised so the server can abort the connection.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("Handler panicked",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"),
			)
			writeError(w, http.StatusInternalServerError, CategoryInternal, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
