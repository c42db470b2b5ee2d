package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/apperr"
	"github.com/spendtrack/spendtrack/internal/auth"
)

func setupAuthApp(issuer *auth.Issuer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": apperr.Message(err)})
		},
	})
	app.Use(TokenAuth(issuer))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		owner, _ := c.Locals("owner_id").(string)
		return c.JSON(fiber.Map{"owner_id": owner})
	})
	return app
}

func TestTokenAuthMissingToken(t *testing.T) {
	app := setupAuthApp(auth.NewIssuer("test-secret", time.Hour))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/whoami", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", resp.StatusCode)
	}
}

func TestTokenAuthValidToken(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)
	app := setupAuthApp(issuer)

	token, _, err := issuer.Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", resp.StatusCode)
	}
}

func TestTokenAuthRejectsForeignSignature(t *testing.T) {
	app := setupAuthApp(auth.NewIssuer("test-secret", time.Hour))

	foreign, _, err := auth.NewIssuer("other-secret", time.Hour).Issue("account-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+foreign)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign signature, got %d", resp.StatusCode)
	}
}
