package handlers

import (
	"log"

	"github.com/clubsplusplus/club_recruitment/middleware"
	"github.com/clubsplusplus/club_recruitment/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type CalendarStreamHandler struct {
	Hub *websocket.Hub
}

// ServeCalendar keeps the connection registered until the client goes away.
// Messages from the client are read and discarded.
func (h *CalendarStreamHandler) ServeCalendar(c *websocketcontrib.Conn) {
	user, err := middleware.UserFromToken(c.Locals("user"))
	if err != nil {
		log.Printf("WebSocket auth failed: %v", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	client := &websocket.Client{UID: user.UID, Conn: c}
	h.Hub.Register(client)
	defer func() {
		h.Hub.Unregister(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket closed for client %s", user.UID)
			} else {
				log.Printf("WebSocket read error for client %s: %v", user.UID, err)
			}
			return
		}
	}
}
