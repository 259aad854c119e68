package routes

import (
	config "github.com/clubsplusplus/club_recruitment/configs"
	"github.com/clubsplusplus/club_recruitment/handlers"
	"github.com/clubsplusplus/club_recruitment/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func CalendarRoutes(app *fiber.App, h *handlers.CalendarHandler, stream *handlers.CalendarStreamHandler, settings config.Settings) {
	api := app.Group("/api/v1")

	calendar := api.Group("/calendar", middleware.Protected(settings.JWTSecret), middleware.UserRequired())
	calendar.Get("/events", h.GetEvents)
	calendar.Get("/events.ics", h.GetEventsICS)

	ws := app.Group("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	ws.Get("/calendar", middleware.ProtectedQuery(settings.JWTSecret), websocket.New(stream.ServeCalendar))
}
