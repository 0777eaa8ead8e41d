package crypto

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie that carries the session token.
	CookieName = "nexaboard_token"

	tokenIssuer   = "nexaboard"
	tokenAudience = "nexaboard-api"
)

// ErrInvalidToken covers every validation failure: bad signature, wrong
// algorithm, expiry, issuer/audience mismatch and missing subject.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret       []byte
	TTL          time.Duration
	CookieSecure bool
	SameSite     http.SameSite
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService issues and validates HS256 identity tokens and builds the
// cookies that carry them.
type TokenService struct {
	secret   []byte
	ttl      time.Duration
	secure   bool
	sameSite http.SameSite
	now      func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(cfg TokenConfig) *TokenService {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	sameSite := cfg.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	return &TokenService{
		secret:   cfg.Secret,
		ttl:      cfg.TTL,
		secure:   cfg.CookieSecure,
		sameSite: sameSite,
		now:      now,
	}
}

// TTL returns the lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token whose subject is the given login identifier.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token and returns its subject if the token is valid.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// Cookie wraps a token in the session cookie. Max-Age matches the token TTL.
func (s *TokenService) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		Expires:  s.now().Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
	}
}

// ClearCookie returns a cookie that makes the client drop the session cookie.
func (s *TokenService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: s.sameSite,
	}
}
