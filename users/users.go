package users

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"unicode"

	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// Document field names in the users collection.
const (
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldRole         = "role"
	FieldDisplayName  = "name"
	FieldAssignedSite = "obra"
)

// User is one registered person as stored in the users collection.
type User struct {
	ID             string   `json:"id,omitempty"`   // Document ID in the store
	Username       string   `json:"username"`       // Unique login name
	DisplayName    string   `json:"name,omitempty"` // Defaults to Username
	PasswordSecret string   `json:"-"`              // Stored credential - never serialize
	Role           RoleType `json:"role"`           // admin, jefe, pasante, ...
	AssignedSite   string   `json:"obra,omitempty"` // Work site the user is scoped to, empty for global scope
}

// HasGlobalScope reports whether the user is not restricted to one site.
func (u User) HasGlobalScope() bool {
	return u.AssignedSite == ""
}

// FromDocument decodes a raw document into a User. username, password and role
// are required; name and obra are optional.
func FromDocument(id string, data map[string]any) (*User, error) {
	username, err := requiredString(data, FieldUsername)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	password, err := requiredString(data, FieldPassword)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}
	role, err := requiredString(data, FieldRole)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", id, err)
	}

	u := &User{
		ID:             id,
		Username:       username,
		DisplayName:    optionalString(data, FieldDisplayName),
		PasswordSecret: password,
		Role:           RoleType(strings.TrimSpace(role)),
		AssignedSite:   optionalString(data, FieldAssignedSite),
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
	return u, nil
}

// ToDocument is the inverse of FromDocument.
func (u User) ToDocument() map[string]any {
	doc := map[string]any{
		FieldUsername: u.Username,
		FieldPassword: u.PasswordSecret,
		FieldRole:     string(u.Role),
	}
	if u.DisplayName != "" {
		doc[FieldDisplayName] = u.DisplayName
	}
	if u.AssignedSite != "" {
		doc[FieldAssignedSite] = u.AssignedSite
	}
	return doc
}

func requiredString(data map[string]any, field string) (string, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: missing %s", apperrors.ErrInvalidUserRecord, field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", apperrors.ErrInvalidUserRecord, field, raw)
	}
	if field != FieldPassword && strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: empty %s", apperrors.ErrInvalidUserRecord, field)
	}
	return s, nil
}

func optionalString(data map[string]any, field string) string {
	s, _ := data[field].(string)
	return s
}

// PasswordMode selects how stored secrets are compared.
type PasswordMode string

const (
	PasswordBcrypt    PasswordMode = "bcrypt"    // stored secret is a bcrypt hash
	PasswordPlaintext PasswordMode = "plaintext" // stored secret is compared byte for byte
)

func ParsePasswordMode(s string) (PasswordMode, error) {
	switch PasswordMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PasswordBcrypt:
		return PasswordBcrypt, nil
	case PasswordPlaintext:
		return PasswordPlaintext, nil
	}
	return "", fmt.Errorf("unknown password mode %q", s)
}

// dummyHash is compared against when the username is unknown.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("obras-dummy-password"), bcrypt.DefaultCost)
	return h
})

// SecretMatches reports whether submitted matches the stored secret under mode.
func (m PasswordMode) SecretMatches(submitted, stored string) bool {
	if m == PasswordPlaintext {
		return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
	}
	return CheckPasswordHash(submitted, stored)
}

// BurnComparison spends the same effort as a real comparison without a stored secret.
func (m PasswordMode) BurnComparison(submitted string) {
	if m == PasswordPlaintext {
		_ = subtle.ConstantTimeCompare([]byte(submitted), []byte(submitted))
		return
	}
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(submitted))
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
