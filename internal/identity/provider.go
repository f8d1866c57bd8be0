package identity

import (
	"context"

	"catering/internal/pkg/jwt"
)

type User struct {
	ID string `json:"id"`
}

type ctxKey struct{}

// WithClaims stores validated token claims on the context.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func ClaimsFrom(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// JWTProvider reports the signed-in user from claims put on the request
// context by the auth middleware. Issuing tokens is someone else's job.
type JWTProvider struct{}

func NewJWTProvider() *JWTProvider {
	return &JWTProvider{}
}

// CurrentUser returns nil when the request is anonymous.
func (p *JWTProvider) CurrentUser(ctx context.Context) (*User, error) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return nil, nil
	}
	if claims.Subject == "" {
		return nil, nil
	}
	return &User{ID: claims.Subject}, nil
}
