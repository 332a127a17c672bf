package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingToken = errors.New("bearer token is required")
	ErrInvalidToken = errors.New("bearer token is invalid")
	ErrAuthDisabled = errors.New("authentication is not configured")
)

// Authenticator resolves the calling principal from an HS256 bearer token's
// subject. Without a secret every write is rejected unless header identity
// was explicitly allowed for local runs.
type Authenticator struct {
	secret         []byte
	headerIdentity bool
}

func NewAuthenticator(secret string) Authenticator {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return Authenticator{}
	}
	return Authenticator{secret: []byte(secret)}
}

func (a Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// WithHeaderIdentity trusts X-User-Id when no secret is configured.
func (a Authenticator) WithHeaderIdentity() Authenticator {
	a.headerIdentity = true
	return a
}

func (a Authenticator) Authenticate(r *http.Request) (string, error) {
	if !a.Enabled() {
		if !a.headerIdentity {
			return "", ErrAuthDisabled
		}
		principal := strings.TrimSpace(r.Header.Get("X-User-Id"))
		if principal == "" {
			return "", ErrMissingToken
		}
		return principal, nil
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// IssueToken signs a token for subject. A non-positive ttl issues a token
// without expiry.
func (a Authenticator) IssueToken(subject string, ttl time.Duration, now time.Time) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("token subject is required")
	}
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
