package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"go-inventory-sales/pkg/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type staticVerifier map[string]identity.Identity

func (v staticVerifier) Verify(_ context.Context, token string) (*identity.Identity, error) {
	id, ok := v[token]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return &id, nil
}

func newApp(t *testing.T) *fiber.App {
	app := fiber.New()
	verifier := staticVerifier{"good": {UserID: "u1", Email: "u1@example.com"}}
	app.Get("/me", RequireAuth(verifier, zaptest.NewLogger(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": c.Locals(LocalUserID), "email": c.Locals(LocalUserEmail)})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newApp(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic good", fiber.StatusUnauthorized},
		{"no token", "Bearer", fiber.StatusUnauthorized},
		{"unknown token", "Bearer bad", fiber.StatusUnauthorized},
		{"valid token", "Bearer good", fiber.StatusOK},
		{"lowercase scheme", "bearer good", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.status == fiber.StatusOK {
				assert.Equal(t, "u1", body["id"])
				assert.Equal(t, "u1@example.com", body["email"])
			} else {
				assert.Equal(t, "UNAUTHENTICATED", body["kind"])
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	_, ok = BearerToken("Token abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer a b")
	assert.False(t, ok)
}
