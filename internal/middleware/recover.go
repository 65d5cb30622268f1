package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"photoedit/internal/domain"
)

// Recover turns a panic into a 500 JSON error body. The stack goes to the
// log only.
func Recover(l zerolog.Logger) func(http.Handler) http.Handler {
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
				l.Error().
					Str("request_id", RequestIDFromContext(r.Context())).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")

				de := domain.UnexpectedMessage(fmt.Sprint(rec))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(de.Kind.Status())
				_ = json.NewEncoder(w).Encode(map[string]string{"error": de.Message})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
