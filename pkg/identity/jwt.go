package identity

import (
	"context"
	"fmt"

	"go-inventory-sales/pkg/jwt"
)

// JWTVerifier accepts locally signed HS256 tokens. Meant for development and
// tests where no Firebase project is available.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := jwt.ValidateToken(v.secret, v.issuer, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
