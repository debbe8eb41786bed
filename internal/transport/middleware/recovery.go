package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicBody mirrors the REST error envelope so clients can parse it.
const panicBody = `{"success":false,"data":null,"error":"internal server error"}`

// Recovery turns a handler panic into a logged 500 response.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(panicBody))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
