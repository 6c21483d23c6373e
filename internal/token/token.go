// Package token issues and verifies the bearer tokens the API uses for
// member, expert and admin sessions. Tokens are HS256 JWTs signed with a
// shared secret; a single-binary deployment has no need for asymmetric keys
// or discovery.
package token

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim.
const (
	RoleMember = "member"
	RoleExpert = "expert"
	RoleAdmin  = "admin"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongRole    = errors.New("token does not grant this role")
)

type Config struct {
	Secret string
	TTL    time.Duration
}

// ConfigFromEnv reads token config from environment variables. TOKEN_SECRET
// must be set in production; the fallback only keeps local development
// friction-free.
func ConfigFromEnv() Config {
	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		secret = "dev_key_only"
	}
	ttl := 12 * time.Hour
	if raw := os.Getenv("TOKEN_TTL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}
	return Config{Secret: secret, TTL: ttl}
}

// Issuer signs and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{secret: []byte(cfg.Secret), ttl: cfg.TTL}
}

// Issue creates a token for subject with the given role.
func (i *Issuer) Issue(subject, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify parses the token and checks it grants role. It returns the subject
// claim on success.
func (i *Issuer) Verify(raw, role string) (subject string, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	gotRole, _ := claims["role"].(string)
	// admin tokens are accepted wherever an expert token is
	if gotRole != role && !(role == RoleExpert && gotRole == RoleAdmin) {
		return "", ErrWrongRole
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
