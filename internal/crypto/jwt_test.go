package crypto

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-that-is-long-enough-0123")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(clock *fakeClock, ttl time.Duration) *TokenService {
	return NewTokenService(TokenConfig{
		Secret: testSecret,
		TTL:    ttl,
		Now:    clock.Now,
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})

	token, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestIssue_EmptySubject(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})

	_, err := svc.Issue("")
	assert.Error(t, err)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	ttl := 30 * time.Minute
	svc := newTestTokenService(clock, ttl)

	token, err := svc.Issue("bob@example.com")
	require.NoError(t, err)

	clock.t = start.Add(ttl - time.Second)
	subject, err := svc.Validate(token)
	require.NoError(t, err, "token must still be valid just before expiry")
	assert.Equal(t, "bob@example.com", subject)

	clock.t = start.Add(ttl)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token must be invalid at expiry")

	clock.t = start.Add(ttl + time.Second)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token must be invalid after expiry")
}

func TestValidate_TamperedSignature(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})
	token, err := svc.Issue("carol@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[5] == 'A' {
		sig[5] = 'B'
	} else {
		sig[5] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Malformed(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})

	for _, token := range []string{"", "not-a-valid-token", "a.b.c"} {
		_, err := svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: []byte("correct-secret-correct-secret-000"), TTL: time.Hour})
	verifier := NewTokenService(TokenConfig{Secret: []byte("wrong-secret-wrong-secret-wrong-0"), TTL: time.Hour})

	token, err := issuer.Issue("dave@example.com")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func signClaims(t *testing.T, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func TestValidate_RejectsForeignClaims(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "erin@example.com",
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	tests := []struct {
		name   string
		method jwt.SigningMethod
		mutate func(c *jwt.RegisteredClaims)
	}{
		{name: "wrong issuer", method: jwt.SigningMethodHS256, mutate: func(c *jwt.RegisteredClaims) { c.Issuer = "someone-else" }},
		{name: "wrong audience", method: jwt.SigningMethodHS256, mutate: func(c *jwt.RegisteredClaims) { c.Audience = jwt.ClaimStrings{"other-api"} }},
		{name: "missing subject", method: jwt.SigningMethodHS256, mutate: func(c *jwt.RegisteredClaims) { c.Subject = "" }},
		{name: "missing expiry", method: jwt.SigningMethodHS256, mutate: func(c *jwt.RegisteredClaims) { c.ExpiresAt = nil }},
		{name: "other hmac algorithm", method: jwt.SigningMethodHS512, mutate: func(c *jwt.RegisteredClaims) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := valid
			tt.mutate(&claims)
			_, err := svc.Validate(signClaims(t, tt.method, claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCookie(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		Secret:       testSecret,
		TTL:          2 * time.Hour,
		CookieSecure: true,
		SameSite:     http.SameSiteStrictMode,
	})

	c := svc.Cookie("tok")
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7200, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestClearCookie(t *testing.T) {
	svc := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})

	c := svc.ClearCookie()
	assert.Equal(t, CookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Contains(t, c.String(), "Max-Age=0")
}
