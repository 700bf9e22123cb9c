package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Actor is the identity/session context attached to audit entries.
// Every field is optional; absence is tolerated.
type Actor struct {
	UserID    int64
	Username  string
	IPAddress string
	UserAgent string
	SessionID string
	RequestID string
}

type actorKey struct{}

// ActorContext captures request metadata for the audit trail
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := Actor{
			IPAddress: clientIP(r),
			UserAgent: r.Header.Get("User-Agent"),
			SessionID: r.Header.Get("X-Session-Id"),
			RequestID: middleware.GetReqID(r.Context()),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// WithActor attaches an actor to the context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor attached to the context, zero when absent
func ActorFrom(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
