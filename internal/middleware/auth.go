package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/apperr"
	"github.com/spendtrack/spendtrack/internal/auth"
)

// TokenAuth is the access gate in front of every ledger operation. It
// resolves the bearer token before the handler runs and stores the resolved
// identity in request locals; a failed resolution terminates the request and
// no store operation is attempted.
func TokenAuth(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return apperr.ErrAuth
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		ownerID, err := issuer.Resolve(token)
		if err != nil {
			return apperr.ErrAuth
		}

		c.Locals("owner_id", ownerID)
		return c.Next()
	}
}
