package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/rs/zerolog/log"
)

// SessionResponse is the JSON view of the signed-in session.
type SessionResponse struct {
	Username     string    `json:"username"`
	DisplayName  string    `json:"name"`
	Role         string    `json:"role"`
	AssignedSite string    `json:"obra,omitempty"`
	GlobalScope  bool      `json:"global_scope"`
	Sections     []string  `json:"sections"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionInfoHandler returns the current session (GET /api/session)
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessions.FromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "no valid session")
			return
		}
		resp := SessionResponse{
			Username:     session.Username,
			DisplayName:  session.DisplayName,
			Role:         string(session.Role),
			AssignedSite: session.AssignedSite,
			GlobalScope:  session.HasGlobalScope(),
			Sections:     []string{},
			IssuedAt:     session.IssuedAt,
			ExpiresAt:    session.ExpiresAt,
		}
		for _, section := range session.Role.Sections() {
			resp.Sections = append(resp.Sections, string(section))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// DirectoryEntry is one user as the directory sees it, without the secret.
type DirectoryEntry struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Obra     string `json:"obra,omitempty"`
}

type DirectoryResponse struct {
	Users      []DirectoryEntry `json:"users"`
	Duplicates []string         `json:"duplicates"`
	Skipped    int              `json:"skipped"`
}

// DirectoryHandler lists the users the login form currently accepts (GET /api/directory)
func (s *Server) DirectoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir, err := s.loader.Load(r.Context())
		if err != nil {
			log.Err(err).Msg("[DirectoryHandler] directory load failed")
			writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "user directory unavailable")
			return
		}
		resp := DirectoryResponse{
			Users:      make([]DirectoryEntry, 0, dir.Len()),
			Duplicates: dir.Duplicates(),
			Skipped:    dir.Skipped(),
		}
		for _, username := range dir.Usernames() {
			role, _ := dir.RoleOf(username)
			site, _ := dir.SiteOf(username)
			resp.Users = append(resp.Users, DirectoryEntry{Username: username, Role: string(role), Obra: site})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
