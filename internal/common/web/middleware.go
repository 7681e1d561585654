package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restaurant-pos/internal/common/auth"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
)

// Actor identifies the authenticated staff member behind a request.
type Actor struct {
	StaffID  string
	Username string
	Role     domain.Role
}

type ctxKey int

const actorKey ctxKey = 0

// ActorFrom returns the actor stored by Authenticate, if any.
func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// Authenticate validates the bearer token and stores the actor in the
// request context. Requests without a valid token are rejected; the core
// services never see anything but the extracted role.
func Authenticate(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				WriteError(w, domain.Unauthorizedf("missing bearer token"))
				return
			}
			claims, err := sessions.Validate(token)
			if err != nil {
				WriteError(w, domain.Unauthorizedf("invalid or expired token"))
				return
			}
			actor := Actor{StaffID: claims.StaffID, Username: claims.Username, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// RequestLogger logs one line per request in the service log format.
func RequestLogger(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			lg.Debug("http_request", map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
