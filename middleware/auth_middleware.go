package middleware

import (
	"errors"
	"strings"

	"github.com/clubsplusplus/club_recruitment/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

var ErrNoUser = errors.New("no authenticated user in request")

// Protected checks the bearer token in the Authorization header.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
	})
}

// ProtectedQuery reads the token from ?token= for clients that cannot set
// headers, such as browser websockets.
func ProtectedQuery(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		TokenLookup:  "query:token",
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "Missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

// CurrentUser builds the caller from the claims Protected stored on the request.
func CurrentUser(c *fiber.Ctx) (models.CurrentUser, error) {
	return UserFromToken(c.Locals("user"))
}

// UserFromToken accepts the value jwtware leaves under the "user" local.
func UserFromToken(v any) (models.CurrentUser, error) {
	token, ok := v.(*jwt.Token)
	if !ok || token == nil {
		return models.CurrentUser{}, ErrNoUser
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.CurrentUser{}, ErrNoUser
	}

	user := models.CurrentUser{
		UID:        claimString(claims, "uid"),
		Email:      claimString(claims, "email"),
		FirstName:  claimString(claims, "first_name"),
		LastName:   claimString(claims, "last_name"),
		RollNumber: claimString(claims, "roll_number"),
	}
	if user.UID == "" {
		return models.CurrentUser{}, ErrNoUser
	}
	return user, nil
}

// UserRequired rejects tokens that verify but carry no uid.
func UserRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := CurrentUser(c); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized: token has no user",
			})
		}
		return c.Next()
	}
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
