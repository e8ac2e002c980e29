package auth

import (
	"time"

	"github.com/jrsteele09/go-obras-server/directory"
	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
)

// DefaultSessionTTL matches the cookie expiry used when nothing is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Options control how Authenticate compares secrets and stamps the Session.
type Options struct {
	Mode users.PasswordMode
	Now  time.Time
	TTL  time.Duration
}

// Authenticate checks one submission against dir.
//
// Both fields empty yields ErrNoSubmission. An unknown username or a secret
// mismatch yields ErrInvalidCredentials; the caller cannot tell the two apart,
// not even by the time taken. On success the returned Session is a copy of the
// matched record.
func Authenticate(dir *directory.Directory, username, password string, opts Options) (sessions.Session, error) {
	if username == "" && password == "" {
		return sessions.Session{}, apperrors.ErrNoSubmission
	}
	if opts.Mode == "" {
		opts.Mode = users.PasswordBcrypt
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultSessionTTL
	}

	var (
		u  users.User
		ok bool
	)
	if dir != nil {
		u, ok = dir.Lookup(username)
	}
	if !ok {
		opts.Mode.BurnComparison(password)
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}
	if !opts.Mode.SecretMatches(password, u.PasswordSecret) {
		return sessions.Session{}, apperrors.ErrInvalidCredentials
	}
	return sessions.New(u, opts.Now, opts.TTL), nil
}
