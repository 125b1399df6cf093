package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSessionIssueAndVerify(t *testing.T) {
	m := NewSessionManager("test-secret", false)

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	uid, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("uid = %q, want user-1", uid)
	}
}

func TestSessionIssueRequiresUID(t *testing.T) {
	m := NewSessionManager("test-secret", false)
	if _, err := m.Issue(""); err == nil {
		t.Fatal("Issue with empty uid should fail")
	}
}

func TestSessionVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSessionManager("secret-a", false).Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewSessionManager("secret-b", false).Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestSessionVerifyRejectsExpired(t *testing.T) {
	m := NewSessionManager("test-secret", false)
	m.now = func() time.Time { return time.Now().Add(-SessionTTL - time.Hour) }

	token, err := m.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestSessionVerifyRejectsUnsignedToken(t *testing.T) {
	m := NewSessionManager("test-secret", false)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify garbage = %v, want ErrInvalidToken", err)
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	m := NewSessionManager("test-secret", true)

	c := m.Cookie("token-value")
	if c.Name != SessionCookieName || c.Value != "token-value" {
		t.Fatalf("cookie = %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("cookie attributes = %+v", c)
	}
	if want := int(SessionTTL / time.Second); c.MaxAge != want {
		t.Fatalf("MaxAge = %d, want %d", c.MaxAge, want)
	}

	cleared := m.ClearCookie()
	if cleared.Name != SessionCookieName || cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatalf("cleared cookie = %+v", cleared)
	}

	// Dev mode keeps the cookie usable over plain HTTP.
	if NewSessionManager("test-secret", false).Cookie("v").Secure {
		t.Fatal("dev cookie should not be Secure")
	}
}

func TestHS256Verifier(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "uid-1",
		"email": "ada@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("provider-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	v := NewHS256Verifier("provider-secret")
	id, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "uid-1" || id.Email != "ada@example.com" {
		t.Fatalf("identity = %+v", id)
	}

	if _, err := NewHS256Verifier("other-secret").Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret = %v, want ErrInvalidToken", err)
	}

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ada@example.com",
	}).SignedString([]byte("provider-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := v.Verify(context.Background(), noSub); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("missing sub = %v, want ErrInvalidClaims", err)
	}
}
