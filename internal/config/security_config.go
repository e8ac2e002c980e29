package config

import (
	"strings"
	"time"
)

type SecurityConfig interface {
	GetCookieName() string
	GetCookieSecret() string
	GetCookieExpiry() time.Duration
	GetCookieSecure() bool
	GetPasswordMode() string
	GetDuplicatePolicy() string
	GetBootstrapAdmin() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

const defaultCookieExpiryDays = 7

func (Security) GetCookieName() string {
	return GetEnv("COOKIE_NAME", "obras_session")
}

// GetCookieSecret returns the key material for the session cookie. Empty means
// the server generates an ephemeral one, so cookies do not survive a restart.
func (Security) GetCookieSecret() string {
	return GetEnv("COOKIE_SECRET", "")
}

func (Security) GetCookieExpiry() time.Duration {
	days := GetEnvInt("COOKIE_EXPIRY_DAYS", defaultCookieExpiryDays)
	if days <= 0 {
		days = defaultCookieExpiryDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// GetCookieSecure defaults to true outside DEV.
func (Security) GetCookieSecure() bool {
	return GetEnvBool("COOKIE_SECURE", !EnvVars{}.IsDev())
}

// GetPasswordMode is "bcrypt" (default) or "plaintext".
func (Security) GetPasswordMode() string {
	return strings.ToLower(GetEnv("PASSWORD_MODE", "bcrypt"))
}

// GetDuplicatePolicy is "last-wins" (default) or "reject".
func (Security) GetDuplicatePolicy() string {
	return strings.ToLower(GetEnv("DUPLICATE_USERS", "last-wins"))
}

func (Security) GetBootstrapAdmin() bool {
	return GetEnvBool("BOOTSTRAP_ADMIN", false)
}
