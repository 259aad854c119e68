package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const secret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(secret), UserRequired(), func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(user)
	})
	app.Get("/ws", ProtectedQuery(secret), func(c *fiber.Ctx) error {
		user, err := UserFromToken(c.Locals("user"))
		if err != nil {
			return err
		}
		return c.SendString(user.UID)
	})
	return app
}

func TestProtectedStatuses(t *testing.T) {
	app := newApp()
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: fiber.StatusBadRequest},
		{name: "garbage", header: "Bearer not-a-token", status: fiber.StatusUnauthorized},
		{name: "expired", header: "Bearer " + sign(t, jwt.MapClaims{"uid": "u1", "exp": time.Now().Add(-time.Hour).Unix()}), status: fiber.StatusUnauthorized},
		{name: "no uid", header: "Bearer " + sign(t, jwt.MapClaims{"email": "a@b.c", "exp": exp}), status: fiber.StatusUnauthorized},
		{name: "valid", header: "Bearer " + sign(t, jwt.MapClaims{"uid": "u1", "exp": exp}), status: fiber.StatusOK},
	}

	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if resp.StatusCode != c.status {
			t.Fatalf("%s: expected %d, got %d", c.name, c.status, resp.StatusCode)
		}
	}
}

func TestProtectedQueryReadsToken(t *testing.T) {
	app := newApp()
	token := sign(t, jwt.MapClaims{"uid": "u7", "exp": time.Now().Add(time.Hour).Unix()})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUserFromTokenReadsClaims(t *testing.T) {
	token := &jwt.Token{Claims: jwt.MapClaims{
		"uid":         "u1",
		"email":       "ada@students.example.edu",
		"first_name":  "Ada",
		"last_name":   "Lovelace",
		"roll_number": "2021101001",
	}}

	user, err := UserFromToken(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UID != "u1" || user.FirstName != "Ada" || user.RollNumber != "2021101001" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := UserFromToken(nil); err != ErrNoUser {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}
