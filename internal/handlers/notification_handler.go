package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/models"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
)

type NotificationHandler struct {
	Gate *auth.Gate
	Hub  *realtime.Hub
}

func NewNotificationHandler(gate *auth.Gate, hub *realtime.Hub) *NotificationHandler {
	return &NotificationHandler{Gate: gate, Hub: hub}
}

// Upgrade authenticates the ?token= query before switching protocols;
// browsers cannot set headers on a websocket handshake.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fail(c, apperr.Validation("Websocket upgrade required"))
	}
	u, err := h.Gate.AuthenticateToken(c.UserContext(), c.Query("token"))
	if err != nil {
		return fail(c, err)
	}
	c.Locals("user", u)
	return c.Next()
}

func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		u, ok := conn.Locals("user").(*models.User)
		if !ok {
			_ = conn.Close()
			return
		}
		realtime.Serve(h.Hub, realtime.NewClient(u.ID), conn)
	})
}
