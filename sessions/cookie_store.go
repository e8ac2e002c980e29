package sessions

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-obras-server/internal/errors"
	"github.com/jrsteele09/go-obras-server/users"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	cookieIssuer   = "obras"
	minSecretBytes = 16
)

// sessionClaims is the signed payload inside the encrypted cookie.
type sessionClaims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	Obra string `json:"obra,omitempty"`
	jwt.RegisteredClaims
}

// CookieStore persists Sessions in an encrypted browser cookie. The value is an
// HS256 JWT sealed with XChaCha20-Poly1305; both keys are derived from one secret.
type CookieStore struct {
	name     string
	ttl      time.Duration
	secure   bool
	signKey  []byte
	aead     cipher.AEAD
	nowTime  func() time.Time
	sameSite http.SameSite
}

type CookieStoreOption func(*CookieStore)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.nowTime = nowFunc
	}
}

// WithSecure marks the cookie Secure, so browsers only send it over HTTPS.
func WithSecure(secure bool) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.secure = secure
	}
}

func WithSameSite(mode http.SameSite) CookieStoreOption {
	return func(cs *CookieStore) {
		cs.sameSite = mode
	}
}

func NewCookieStore(name string, secret []byte, ttl time.Duration, options ...CookieStoreOption) (*CookieStore, error) {
	if name == "" {
		return nil, errors.New("[NewCookieStore] cookie name is required")
	}
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("[NewCookieStore] secret must be at least %d bytes", minSecretBytes)
	}
	if ttl <= 0 {
		return nil, errors.New("[NewCookieStore] ttl must be positive")
	}

	signKey, err := deriveKey(secret, "obras session signing")
	if err != nil {
		return nil, err
	}
	encKey, err := deriveKey(secret, "obras session encryption")
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(encKey)
	if err != nil {
		return nil, fmt.Errorf("[NewCookieStore] chacha20poly1305.NewX: %w", err)
	}

	cs := &CookieStore{
		name:     name,
		ttl:      ttl,
		secure:   true,
		signKey:  signKey,
		aead:     aead,
		nowTime:  time.Now,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range options {
		opt(cs)
	}
	return cs, nil
}

// NewRandomSecret returns n random bytes for use as an ephemeral cookie secret.
func NewRandomSecret(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func deriveKey(secret []byte, info string) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("[deriveKey] %s: %w", info, err)
	}
	return key, nil
}

func (cs *CookieStore) Name() string {
	return cs.name
}

func (cs *CookieStore) TTL() time.Duration {
	return cs.ttl
}

// NewSession snapshots u into a Session using the store's clock and ttl.
func (cs *CookieStore) NewSession(u users.User) Session {
	return New(u, cs.nowTime(), cs.ttl)
}

// Encode seals s into a cookie value.
func (cs *CookieStore) Encode(s Session) (string, error) {
	claims := sessionClaims{
		Name: s.DisplayName,
		Role: string(s.Role),
		Obra: s.AssignedSite,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Issuer:    cookieIssuer,
			Subject:   s.Username,
			IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cs.signKey)
	if err != nil {
		return "", fmt.Errorf("[CookieStore.Encode] sign: %w", err)
	}

	nonce := make([]byte, cs.aead.NonceSize(), cs.aead.NonceSize()+len(signed)+cs.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("[CookieStore.Encode] nonce: %w", err)
	}
	sealed := cs.aead.Seal(nonce, nonce, []byte(signed), []byte(cs.name))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode opens a cookie value. Tampered or foreign values yield
// ErrSessionInvalid, stale ones ErrSessionExpired.
func (cs *CookieStore) Decode(value string) (Session, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(sealed) < cs.aead.NonceSize() {
		return Session{}, apperrors.ErrSessionInvalid
	}
	nonce, ciphertext := sealed[:cs.aead.NonceSize()], sealed[cs.aead.NonceSize():]
	plain, err := cs.aead.Open(nil, nonce, ciphertext, []byte(cs.name))
	if err != nil {
		return Session{}, apperrors.ErrSessionInvalid
	}

	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(string(plain), claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return cs.signKey, nil
	},
		jwt.WithTimeFunc(cs.nowTime),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, apperrors.ErrSessionExpired
		}
		return Session{}, apperrors.Wrapf(apperrors.ErrSessionInvalid, "%v", err)
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return Session{}, apperrors.ErrSessionInvalid
	}

	return Session{
		ID:           claims.ID,
		Username:     claims.Subject,
		DisplayName:  claims.Name,
		Role:         users.RoleType(claims.Role),
		AssignedSite: claims.Obra,
		IssuedAt:     claims.IssuedAt.Time.UTC(),
		ExpiresAt:    claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Save writes s as the session cookie.
func (cs *CookieStore) Save(w http.ResponseWriter, s Session) error {
	value, err := cs.Encode(s)
	if err != nil {
		return err
	}
	maxAge := int(math.Ceil(s.ExpiresAt.Sub(cs.nowTime()).Seconds()))
	if maxAge <= 0 {
		return apperrors.ErrSessionExpired
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cs.name,
		Value:    value,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: cs.sameSite,
	})
	return nil
}

// Load restores the Session carried by the request's cookie.
func (cs *CookieStore) Load(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(cs.name)
	if err != nil || cookie.Value == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}
	return cs.Decode(cookie.Value)
}

// Clear tells the browser to drop the session cookie.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cs.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: cs.sameSite,
	})
}
