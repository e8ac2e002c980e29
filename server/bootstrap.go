package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/go-obras-server/users"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAdminUsername    = "admin"
	DefaultAdminDisplayName = "Administrador"
	generatedPasswordBytes  = 12
)

// InitialiseSystem creates the first administrator when the users collection
// holds no usable record. The generated password is logged once.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	dir, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to read users: %w", err)
	}
	if dir.Len() > 0 {
		log.Debug().Int("users", dir.Len()).Msg("users collection already populated, skipping bootstrap")
		return nil
	}

	password, err := generatePassword()
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to generate password: %w", err)
	}
	secret := password
	if s.passwordMode == users.PasswordBcrypt {
		if secret, err = users.HashPassword(password); err != nil {
			return fmt.Errorf("[Server InitialiseSystem] failed to hash password: %w", err)
		}
	}

	admin := &users.User{
		Username:       DefaultAdminUsername,
		DisplayName:    DefaultAdminDisplayName,
		PasswordSecret: secret,
		Role:           users.RoleAdmin,
	}
	if err := s.users.Upsert(ctx, admin); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to create admin: %w", err)
	}

	log.Warn().
		Str("username", admin.Username).
		Str("password", password).
		Str("document", admin.ID).
		Msg("created initial administrator, change this password")
	return nil
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
