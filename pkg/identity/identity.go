// Package identity verifies bearer credentials issued by an external identity
// provider and turns them into an opaque user id.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
