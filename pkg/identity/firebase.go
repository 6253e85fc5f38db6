package identity

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"go-inventory-sales/internal/config"
)

// idTokenVerifier is the subset of *auth.Client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier validates Firebase ID tokens.
type FirebaseVerifier struct {
	client       idTokenVerifier
	checkRevoked bool
}

// NewFirebaseVerifier initializes the Firebase Admin SDK from inline JSON
// credentials or, failing that, a service account file.
func NewFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	var opt option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opt = option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	case cfg.CredentialsFile != "":
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("firebase credentials file: %w", err)
		}
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	default:
		return nil, fmt.Errorf("firebase credentials are not configured")
	}

	var fbConfig *firebase.Config
	if cfg.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client, checkRevoked: cfg.CheckRevoked}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var (
		decoded *auth.Token
		err     error
	)
	if v.checkRevoked {
		decoded, err = v.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	} else {
		decoded, err = v.client.VerifyIDToken(ctx, token)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if decoded.UID == "" {
		return nil, ErrInvalidToken
	}

	email, _ := decoded.Claims["email"].(string)
	return &Identity{UserID: decoded.UID, Email: email}, nil
}
