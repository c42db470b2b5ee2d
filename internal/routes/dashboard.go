package routes

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/account"
	"github.com/spendtrack/spendtrack/internal/apperr"
)

// RegisterDashboardRoute exposes the authenticated user's profile greeting.
func RegisterDashboardRoute(r fiber.Router, accounts *account.Service) {
	r.Get("/dashboard", func(c *fiber.Ctx) error {
		owner, _ := c.Locals("owner_id").(string)
		if owner == "" {
			return apperr.ErrAuth
		}
		acct, err := accounts.GetByID(c.UserContext(), owner)
		if err != nil {
			return apperr.ErrAuth
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message": fmt.Sprintf("Welcome to your dashboard, %s!", acct.Name),
			"user": fiber.Map{
				"id":    acct.ID,
				"name":  acct.Name,
				"email": acct.Email,
			},
		})
	})
}
