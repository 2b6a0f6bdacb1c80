package handler

import (
	"net/http"

	"github.com/phbpx/prits/auth"
)

// Authorized runs next only when guard allows the request. A denied request
// gets a 401 and never reaches a store.
func Authorized(guard auth.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if err := guard(r); err != nil {
				respondErr(r.Context(), rw, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}
