package middleware

import (
	"io"
	"net/http"
)

// bodyDrainLimit caps how much of an unread request body gets discarded
// before the connection is abandoned instead of reused. The progression
// endpoints carry no request payload, so anything near this limit is a
// misbehaving client.
const bodyDrainLimit = 1 << 20

// DrainAndCloseRequest discards whatever the handler left unread in the
// request body and closes it, keeping the underlying connection
// eligible for reuse.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, bodyDrainLimit)
				_ = r.Body.Close()
			}
		})
	}
}
