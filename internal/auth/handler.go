package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/account"
	"github.com/spendtrack/spendtrack/internal/apperr"
)

// Handler exposes registration and session endpoints.
type Handler struct {
	accounts *account.Service
	svc      *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(accounts *account.Service, svc *Service) *Handler {
	return &Handler{accounts: accounts, svc: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register handles account creation. No token is issued; callers log in
// afterwards.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	acct, err := h.accounts.Register(c.UserContext(), account.RegisterInput{
		Name:   req.Name,
		Email:  req.Email,
		Secret: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(accountResponse{ID: acct.ID, Name: acct.Name, Email: acct.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccountID string `json:"account_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login validates credentials and returns a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	session, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		AccountID: session.AccountID,
		Token:     session.Token,
		ExpiresIn: session.ExpiresIn,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword rehashes the caller's secret. Outstanding tokens stay valid
// until they expire.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	owner, _ := c.Locals("owner_id").(string)
	if owner == "" {
		return apperr.ErrAuth
	}
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	if err := h.accounts.ChangeSecret(c.UserContext(), owner, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "password_changed"})
}
