package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ferndale/console-edge/internal/authz/ports"
	"github.com/ferndale/console-edge/internal/platform/logger"
	sessionapp "github.com/ferndale/console-edge/internal/session/application"
)

type sessionContextKey struct{}

// SessionMiddleware attaches the caller's edge session to the request
// context, creating and hydrating it on the first authenticated request.
// It runs after the JWT middleware and before any guard.
type SessionMiddleware struct {
	sessions *sessionapp.Manager
	logger   logger.Logger
}

func NewSessionMiddleware(sessions *sessionapp.Manager, logger logger.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, logger: logger}
}

func (m *SessionMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetJWTUserID(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		if token := bearerToken(r); token != "" {
			ctx = ports.WithToken(ctx, token)
		}

		session := m.sessions.Start(ctx, userID)
		if token, tokenOK := ports.TokenFromContext(ctx); tokenOK {
			session.SetToken(token)
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
	})
}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, session *sessionapp.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*sessionapp.Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*sessionapp.Session)
	return session, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return token
}
