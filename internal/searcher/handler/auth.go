package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/femitubosun/codygo-task/pkg/errors"
)

// APIKey returns middleware enforcing the flat pre-shared key carried in
// the x-api-key header. A missing or mismatched key is rejected with the
// status mapped for ErrUnauthorized (402, not 401) and the body
// "Unauthorized" before any index store access happens.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("x-api-key")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				w.WriteHeader(errors.HTTPStatusCode(errors.ErrUnauthorized))
				_, _ = w.Write([]byte("Unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
