package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/rs/zerolog/log"
)

// loadSession restores the session cookie. Cookies that fail to decode are
// cleared so the browser stops sending them.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (sessions.Session, bool) {
	session, err := s.cookies.Load(r)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrSessionNotFound) {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("discarding session cookie")
			s.cookies.Clear(w)
		}
		return sessions.Session{}, false
	}
	return session, true
}

// RequireSession is middleware for HTML routes that validates the session cookie
// and places the Session in the request context.
func (s *Server) RequireSession() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := s.loadSession(w, r)
			if !ok {
				redirectSuccess(w, r, RouteLogin)
				return
			}
			next(w, r.WithContext(sessions.WithSession(r.Context(), session)))
		}
	}
}

// RequireAPISession answers 401 instead of redirecting.
func (s *Server) RequireAPISession() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := s.loadSession(w, r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "no valid session")
				return
			}
			next(w, r.WithContext(sessions.WithSession(r.Context(), session)))
		}
	}
}

// RequireSection is middleware that checks the {section} path value against the
// session's role. Chain it after RequireSession.
func (s *Server) RequireSection() Middleware {
	forbiddenTmpl := mustParseTemplate("forbidden.html")

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := sessions.FromContext(r.Context())
			if !ok {
				redirectSuccess(w, r, RouteLogin)
				return
			}
			section, known := users.ParseSection(r.PathValue("section"))
			if !known {
				http.Error(w, "404 - Page Not Found", http.StatusNotFound)
				return
			}
			if !session.Can(section) {
				log.Warn().
					Str("username", session.Username).
					Str("role", string(session.Role)).
					Str("section", string(section)).
					Msg("section denied")
				s.renderForbidden(w, forbiddenTmpl, session, section)
				return
			}
			next(w, r)
		}
	}
}

// RequireRole limits an API route to the listed roles.
func (s *Server) RequireRole(roles ...users.RoleType) Middleware {
	allowed := make(map[users.RoleType]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			session, ok := sessions.FromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "no valid session")
				return
			}
			if !allowed[session.Role] {
				writeJSONError(w, http.StatusForbidden, "forbidden", "role not allowed")
				return
			}
			next(w, r)
		}
	}
}
