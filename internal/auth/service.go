package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/elupus/media-stack-core/internal/infrastructure/config"
)

// Service authenticates the single configured API account and issues
// access tokens for it. There is no user database: credentials come from
// config.yaml (or the environment) and tokens are validated by signature.
type Service struct {
	username string
	password string // plaintext or Argon2id PHC hash
	secret   string
	ttl      int
}

// NewService creates a Service from the security configuration.
func NewService(cfg config.SecurityConfig) *Service {
	return &Service{
		username: cfg.Admin.Username,
		password: cfg.Admin.Password,
		secret:   cfg.JWT.Secret,
		ttl:      cfg.JWT.AccessTokenTTL,
	}
}

// Login verifies the credentials and returns a signed access token.
//
// The configured password may be stored either as plaintext or as an
// Argon2id PHC hash (produced by HashPassword). Both comparisons are
// constant-time.
//
// Returns ErrInvalidCredentials when the username or password does not match.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	var passOK bool
	if strings.HasPrefix(s.password, phcPrefix) {
		ok, err := VerifyPassword(password, s.password)
		if err != nil {
			return "", ErrInvalidCredentials
		}
		passOK = ok
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	}

	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	return GenerateAccessToken(s.username, s.secret, s.ttl)
}

// Verify parses a bearer token previously issued by this service.
func (s *Service) Verify(tokenString string) (*CustomClaims, error) {
	return ParseToken(tokenString, s.secret)
}
