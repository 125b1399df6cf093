// Package auth handles the identity-token exchange and the signed session
// cookie that keeps users logged in for a week.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the single server-set session cookie.
const SessionCookieName = "__session_mockwise"

// SessionTTL is how long a session credential stays valid.
const SessionTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// SessionManager issues and verifies the signed session credential.
type SessionManager struct {
	secret        []byte
	secureCookies bool
	now           func() time.Time
}

// NewSessionManager constructs a manager. secureCookies should be true in
// production so the cookie is only sent over HTTPS.
func NewSessionManager(secret string, secureCookies bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), secureCookies: secureCookies, now: time.Now}
}

// Issue signs a session credential for the given uid.
func (m *SessionManager) Issue(uid string) (string, error) {
	if uid == "" {
		return "", errors.New("uid required")
	}
	now := m.now()
	claims := jwt.MapClaims{
		"sub": uid,
		"iat": now.Unix(),
		"exp": now.Add(SessionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify validates a session credential and returns the uid it carries.
func (m *SessionManager) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidClaims
	}
	return sub, nil
}

// Cookie wraps a session credential in the HTTP-only, lax, 7-day cookie.
func (m *SessionManager) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
