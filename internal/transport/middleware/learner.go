package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lingua-cards/pkg/ctxutil"
)

// LearnerIDHeader carries the opaque learner identifier chosen by the client.
const LearnerIDHeader = "X-Learner-ID"

// Learner returns middleware that puts the learner ID from LearnerIDHeader
// into the request context. Requests without the header pass through
// anonymously; a malformed or nil ID is rejected with 400.
func Learner() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(LearnerIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				writeError(w, http.StatusBadRequest, "invalid learner id")
				return
			}

			ctx := ctxutil.WithLearnerID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
