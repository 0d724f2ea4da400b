package slogx

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abyford453/FleetGuard/pkg/idx"
)

// RequestIDHeader is read from inbound requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds caller supplied ids before they reach the logs.
const maxRequestIDLen = 64

// HTTPMiddleware gives every request a contextual logger tagged with its
// request id, logs one line per request and turns panics into a 500.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			reqID := requestID(r.Header.Get(RequestIDHeader))
			rw.Header().Set(RequestIDHeader, reqID)

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
			)
			r = r.WithContext(WithContext(r.Context(), logger))

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic serving request", "panic", fmt.Sprint(rec))
					if !rw.wroteHeader {
						http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					}
				}

				level := slog.LevelInfo
				switch {
				case rw.status >= http.StatusInternalServerError:
					level = slog.LevelError
				case rw.status == http.StatusTooManyRequests:
					level = slog.LevelWarn
				}

				attrs := []any{
					"status", rw.status,
					"bytes", rw.bytes,
					"duration_ms", time.Since(start).Milliseconds(),
					"remote_addr", r.RemoteAddr,
				}
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					attrs = append(attrs, "route", rctx.RoutePattern())
				}
				logger.Log(r.Context(), level, "http_request", attrs...)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// requestID keeps a caller supplied id when it is short and printable,
// otherwise mints a fresh one.
func requestID(in string) string {
	if in == "" || len(in) > maxRequestIDLen {
		return idx.New()
	}
	for _, c := range in {
		if c < 0x21 || c > 0x7e {
			return idx.New()
		}
	}
	return in
}

type statusRecorder struct {
	http.ResponseWriter

	status      int
	bytes       int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}
