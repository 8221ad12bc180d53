package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketFeedHandler handles WebSocket connections for the live feed.
// Clients receive a JSON feed event whenever someone they follow posts or
// a new follower appears. The socket is push-only; incoming frames are
// ignored apart from keepalive control messages.
func (s *Server) WebsocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		// userID is set by WebSocketAuthRequired before the upgrade.
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live feed unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			slog.Warn("feed websocket registration failed", "user_id", userID, "error", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		slog.Info("feed websocket connected", "user_id", userID)

		go client.WritePump()
		client.ReadPump()
	})
}
