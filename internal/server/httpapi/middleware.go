package httpapi

import (
	"context"
	"net/http"

	"github.com/avpetrov/authcore/internal/repository"
	"github.com/avpetrov/authcore/internal/reqmeta"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
)

type sessionCtxKey struct{}

// SessionFromContext returns the session attached by the middleware, or nil.
func SessionFromContext(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionCtxKey{}).(*auth.Session)
	return s
}

// attachRequestMeta stashes caller metadata for log correlation. It never
// affects control flow.
func (s *Server) attachRequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := reqmeta.NewContext(r.Context(), reqmeta.Meta{
			Route:     r.URL.Path,
			Method:    r.Method,
			UserAgent: r.UserAgent(),
			IP:        r.RemoteAddr,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// attachSession decodes the access-token cookie and, when it verifies and the
// subject still exists, attaches the session to the context. A missing or
// invalid cookie simply leaves the request anonymous.
func (s *Server) attachSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session := s.codec.DecodeSession(r.Context(), cookie.Value)
		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := s.users.FindOne(r.Context(), repository.Criteria{
			users.FieldID: repository.Exact(session.UserID),
		}); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects anonymous requests with a generic 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			respondGenericError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
