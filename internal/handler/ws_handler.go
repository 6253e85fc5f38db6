package handler

import (
	"go-inventory-sales/internal/apperror"
	"go-inventory-sales/internal/middleware"
	"go-inventory-sales/internal/ws"
	"go-inventory-sales/pkg/identity"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WSHandler struct {
	hub      *ws.Hub
	verifier identity.Verifier
	log      *zap.Logger
}

func NewWSHandler(hub *ws.Hub, verifier identity.Verifier, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, verifier: verifier, log: log}
}

// Upgrade authenticates the ?token= query parameter before the websocket
// handshake. Browsers cannot set headers on websocket requests.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}

	token := c.Query("token")
	if token == "" {
		token, _ = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	id, err := h.verifier.Verify(c.UserContext(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
			"kind":  apperror.KindUnauthenticated,
		})
	}

	c.Locals(middleware.LocalUserID, id.UserID)
	return c.Next()
}

// Serve keeps the connection registered until the client goes away
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(middleware.LocalUserID).(string)
		client := &ws.Client{UserID: userID, Conn: c}

		h.hub.Join(client)
		defer h.hub.Leave(client)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				h.log.Debug("ws client disconnected", zap.String("user_id", userID), zap.Error(err))
				return
			}
		}
	})
}
