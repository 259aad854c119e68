package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ScheduleRateLimiter bounds scheduling runs per caller. Callers are keyed by
// uid when a token has been checked, otherwise by IP.
func ScheduleRateLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if user, err := CurrentUser(c); err == nil {
				return "uid:" + user.UID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many scheduling requests. Please try again in a minute.",
			})
		},
	})
}
