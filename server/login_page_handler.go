package server

import (
	"net/http"

	"github.com/jrsteele09/go-obras-server/auth"
	"github.com/rs/zerolog/log"
)

const (
	formUsername = "username"
	formPassword = "password"

	messageWarning = "warning"
	messageError   = "error"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName     string
	State       string
	Username    string // Preserve username on error
	Message     string
	MessageKind string
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.loadSession(w, r); ok {
			redirectSuccess(w, r, RouteHome)
			return
		}
		renderTemplate(w, loginTmpl, http.StatusOK, s.loginPageData(auth.AwaitingInput, ""))
	}
}

// LoginSubmissionHandler processes the login form submission (POST /auth/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		username := r.PostFormValue(formUsername)
		password := r.PostFormValue(formPassword)

		result := s.auth.Login(r.Context(), username, password)
		switch result.State {
		case auth.Authenticated:
			if err := s.cookies.Save(w, result.Session); err != nil {
				log.Err(err).Str("username", result.Session.Username).Msg("Failed to write session cookie")
				http.Error(w, "Failed to start session", http.StatusInternalServerError)
				return
			}
			redirectSuccess(w, r, RouteHome)
		case auth.NoSubmission:
			renderTemplate(w, loginTmpl, http.StatusOK, s.loginPageData(result.State, username))
		case auth.Invalid:
			renderTemplate(w, loginTmpl, http.StatusUnauthorized, s.loginPageData(result.State, username))
		default:
			renderTemplate(w, loginTmpl, http.StatusServiceUnavailable, s.loginPageData(result.State, username))
		}
	}
}

// LogoutHandler drops the session cookie (GET /auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.loadSession(w, r); ok {
			log.Info().Str("username", session.Username).Msg("logout")
		}
		s.cookies.Clear(w)
		redirectSuccess(w, r, RouteLogin)
	}
}

func (s *Server) loginPageData(state auth.State, username string) LoginPageData {
	data := LoginPageData{
		AppName:  s.config.GetAppName(),
		State:    state.String(),
		Username: username,
		Message:  state.Message(),
	}
	switch state {
	case auth.NoSubmission:
		data.MessageKind = messageWarning
	case auth.Invalid, auth.Unavailable:
		data.MessageKind = messageError
	}
	return data
}
