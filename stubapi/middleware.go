package stubapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nlouis56/convivio-web/internal/metrics"
	"github.com/nlouis56/convivio-web/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated *users.User
	ContextKeyUser ContextKey = "user"
)

type Middleware func(http.HandlerFunc) http.HandlerFunc

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...Middleware) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is the standard stack for JSON routes, followed by mw.
func (s *Server) APIMiddleware(mw ...Middleware) []Middleware {
	chained := []Middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}
	return append(chained, mw...)
}

// statusRecorder remembers the status code written by the handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		metrics.RecordAPIRequest(r.Pattern, strconv.Itoa(rec.status))
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("Recovered from handler panic")
				writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
			}
		}()
		next(w, r)
	}
}

// RequireAuth validates the Bearer access token and loads the user it was
// issued to. Deactivated users are rejected even with an unexpired token.
func (s *Server) RequireAuth() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, reason := s.authenticate(r)
			if user == nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", reason)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// OptionalAuth loads the user like RequireAuth when the request carries a
// valid token, and lets anonymous or badly authenticated requests through
// without one.
func (s *Server) OptionalAuth() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if user, _ := s.authenticate(r); user != nil {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyUser, user))
			}
			next(w, r)
		}
	}
}

// authenticate returns the active user behind the bearer token, or nil and
// the reason it was refused.
func (s *Server) authenticate(r *http.Request) (*users.User, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "Missing Authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return nil, "Invalid Authorization header format"
	}

	claims, err := s.signer.Verify(parts[1])
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected bearer token")
		return nil, "Invalid token"
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil || !user.Active {
		return nil, "Unknown or inactive user"
	}
	return user, ""
}

// RequireRole must be chained after RequireAuth
func (s *Server) RequireRole(role string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok || !user.HasRole(role) {
				writeError(w, http.StatusForbidden, "forbidden", "Role "+role+" required")
				return
			}
			next(w, r)
		}
	}
}

// RequireSelfOrRole lets users act on their own {id}, and holders of role on anyone.
func (s *Server) RequireSelfOrRole(role string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok || (user.ID != r.PathValue("id") && !user.HasRole(role)) {
				writeError(w, http.StatusForbidden, "forbidden", "Not allowed to modify this user")
				return
			}
			next(w, r)
		}
	}
}

func userFromContext(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*users.User)
	return user, ok
}

// canManage reports whether user may edit something owned by ownerID.
func canManage(user *users.User, ownerID string) bool {
	return user != nil && (user.ID == ownerID || user.HasRole(users.RoleAdmin))
}
