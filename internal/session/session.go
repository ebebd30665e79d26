// Package session implements cookie-backed browser sessions signed as JWTs,
// plus one-shot flash messages. The session carries only the signed-in
// username; everything else lives in the database.
package session

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookie  = "prayer-partner-session"
	redirectCookie = "prayer-partner-redirect"
)

// Config holds session settings.
type Config struct {
	Secret string
	TTL    time.Duration
}

// ConfigFromEnv reads the session secret from SESSION_SECRET. The fallback is
// only suitable for local development.
func ConfigFromEnv() Config {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "insecure-dev-secret"
	}
	// 30 days
	return Config{Secret: secret, TTL: 30 * 24 * time.Hour}
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager signs, verifies and clears session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(cfg Config) *Manager {
	return &Manager{secret: []byte(cfg.Secret), ttl: cfg.TTL}
}

// SignIn issues a signed session cookie for username.
func (m *Manager) SignIn(w http.ResponseWriter, username string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Current returns the signed-in username for the request, if any.
func (m *Manager) Current(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}

	var cl claims
	token, err := jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || cl.Username == "" {
		return "", false
	}
	return cl.Username, true
}

// SignOut clears the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RememberRedirect stores the URL an unauthenticated visitor was heading to,
// so signin can send them back there.
func (m *Manager) RememberRedirect(w http.ResponseWriter, url string) {
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookie,
		Value:    url,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeRedirect returns and clears the remembered URL. Only local paths are
// honored; absolute and protocol-relative URLs fall back to empty.
func (m *Manager) TakeRedirect(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(redirectCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     redirectCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// "//host" would redirect off-site
	if !strings.HasPrefix(c.Value, "/") || strings.HasPrefix(c.Value, "//") {
		return ""
	}
	return c.Value
}
