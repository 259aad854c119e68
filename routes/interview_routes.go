package routes

import (
	config "github.com/clubsplusplus/club_recruitment/configs"
	"github.com/clubsplusplus/club_recruitment/handlers"
	"github.com/clubsplusplus/club_recruitment/middleware"
	"github.com/gofiber/fiber/v2"
)

func InterviewRoutes(app *fiber.App, h *handlers.InterviewHandler, settings config.Settings) {
	api := app.Group("/api/v1")

	interviews := api.Group("/interviews", middleware.Protected(settings.JWTSecret), middleware.UserRequired())
	interviews.Post("/schedule", middleware.ScheduleRateLimiter(settings.Scheduling.ScheduleRequestsMin), h.ScheduleInterviews)
	interviews.Get("/forms/:formId/schedule", h.GetFormSchedule)
}
