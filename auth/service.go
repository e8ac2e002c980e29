package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/go-obras-server/directory"
	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/sessions"
	"github.com/jrsteele09/go-obras-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DirectoryLoader produces a fresh Directory for one login attempt.
type DirectoryLoader interface {
	Load(ctx context.Context) (*directory.Directory, error)
}

// Result is the outcome of one login attempt. Session is only set when State
// is Authenticated.
type Result struct {
	State   State
	Session sessions.Session
	Message string
	Err     error
}

// Service runs login attempts. It keeps nothing between attempts.
type Service struct {
	loader  DirectoryLoader
	mode    users.PasswordMode
	ttl     time.Duration
	nowTime func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithPasswordMode(mode users.PasswordMode) ServiceOption {
	return func(s *Service) {
		s.mode = mode
	}
}

// WithSessionTTL sets how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

func NewService(loader DirectoryLoader, options ...ServiceOption) (*Service, error) {
	if loader == nil {
		return nil, errors.New("[NewService] directory loader is required")
	}
	s := &Service{
		loader:  loader,
		mode:    users.PasswordBcrypt,
		ttl:     DefaultSessionTTL,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login reads the directory afresh and checks the submission against it.
// An empty submission is answered without touching the store.
func (s *Service) Login(ctx context.Context, username, password string) Result {
	if username == "" && password == "" {
		return result(NoSubmission, apperrors.ErrNoSubmission)
	}

	dir, err := s.loader.Load(ctx)
	if err != nil {
		log.Err(err).Msg("[Service.Login] directory load failed")
		return result(Unavailable, errors.Wrap(err, "[Service.Login] load directory"))
	}

	session, err := Authenticate(dir, username, password, Options{
		Mode: s.mode,
		Now:  s.nowTime(),
		TTL:  s.ttl,
	})
	switch {
	case err == nil:
		log.Info().Str("username", session.Username).Str("role", string(session.Role)).Msg("login succeeded")
		return Result{State: Authenticated, Session: session}
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		log.Info().Str("username", username).Msg("login rejected")
		return result(Invalid, err)
	case apperrors.Is(err, apperrors.ErrNoSubmission):
		return result(NoSubmission, err)
	}
	return result(Unavailable, errors.Wrap(err, "[Service.Login] authenticate"))
}

func result(state State, err error) Result {
	return Result{State: state, Message: state.Message(), Err: err}
}
