package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims are the claims of an identity provider token. The subject is the
// account id; Role is empty for customers.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwtlib.RegisteredClaims
}

// Service checks HS256 bearer tokens. Tokens must expire and, when an
// issuer is configured, come from it.
type Service struct {
	key    []byte
	ttl    time.Duration
	issuer string
	parser *jwtlib.Parser
}

func New(secret string, ttl time.Duration, issuer string) *Service {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(issuer))
	}
	return &Service{
		key:    []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		parser: jwtlib.NewParser(opts...),
	}
}

func (s *Service) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, func(*jwtlib.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// GenerateToken signs a customer token for subject. Real tokens come from
// the identity provider; this serves tests and local tooling.
func (s *Service) GenerateToken(subject string) (string, error) {
	return s.GenerateRoleToken(subject, "")
}

func (s *Service) GenerateRoleToken(subject, role string) (string, error) {
	now := time.Now()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.key)
}
