package realtime

import (
	"github.com/gofiber/websocket/v2"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
)

// Serve pumps hub messages for client onto conn until the peer goes away.
func Serve(hub *Hub, client *Client, conn *websocket.Conn) {
	hub.RegisterClient(client)
	defer hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "user_id", client.UserID, "error", err)
				return
			}
		}
	}()

	// Inbound frames are only pings; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			logger.Debug("ws closed", "user_id", client.UserID, "error", err)
			return
		}
	}
}
