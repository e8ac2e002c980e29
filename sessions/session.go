package sessions

import (
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-obras-server/users"
)

// Session is the proof of a successful login. Its fields are a snapshot of the
// user record taken at login time; later edits to the record do not reach it.
type Session struct {
	ID           string         // Unique session identifier (UUID)
	Username     string         // Login name of the user
	DisplayName  string         // Name shown in the UI
	Role         users.RoleType // Role at login time
	AssignedSite string         // Site scope at login time, empty for global scope
	IssuedAt     time.Time      // When the login succeeded
	ExpiresAt    time.Time      // When the cookie stops being accepted
}

// New snapshots u into a Session valid for ttl from now. Times are truncated to
// seconds so a Session survives a cookie round trip unchanged.
func New(u users.User, now time.Time, ttl time.Duration) Session {
	issued := now.UTC().Truncate(time.Second)
	return Session{
		ID:           uuid.New().String(),
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		AssignedSite: u.AssignedSite,
		IssuedAt:     issued,
		ExpiresAt:    issued.Add(ttl),
	}
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Can reports whether the session's role grants the section.
func (s Session) Can(section users.Section) bool {
	return s.Role.Can(section)
}

func (s Session) HasGlobalScope() bool {
	return s.AssignedSite == ""
}
