package expense

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

// Handler exposes expense HTTP endpoints. The owner identity is taken from
// request locals set by the authentication middleware; owner fields in
// request bodies do not exist.
type Handler struct {
	service *Service
}

// NewHandler builds an expense HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// amountField accepts either a JSON number or a decimal string; the literal
// text is handed to the service untouched so parsing and validation happen
// in one place. Exponent notation (1e2) is passed through verbatim and fails
// validation like any other non-decimal literal.
type amountField string

func (a *amountField) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*a = amountField(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = amountField(s)
	return nil
}

type createRequest struct {
	Amount      amountField `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
}

type updateRequest struct {
	Amount      *amountField `json:"amount"`
	Category    *string      `json:"category"`
	Date        *string      `json:"date"`
	Description *string      `json:"description"`
}

type expenseResponse struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type monthlyTotalResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Total string `json:"total"`
}

// Create records a new expense for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	exp, err := h.service.Create(c.UserContext(), owner, CreateInput{
		Amount:      string(req.Amount),
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(toResponse(exp))
}

// Get returns a single expense by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	exp, err := h.service.Get(c.UserContext(), owner, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(exp))
}

// List returns the owner's expenses, optionally filtered by category and an
// inclusive date range.
func (h *Handler) List(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	expenses, err := h.service.List(c.UserContext(), owner, queryFromCtx(c))
	if err != nil {
		return err
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, exp := range expenses {
		out = append(out, toResponse(exp))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Update applies a partial update; omitted fields keep their prior value.
func (h *Handler) Update(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("invalid request body")
	}
	var amount *string
	if req.Amount != nil {
		s := string(*req.Amount)
		amount = &s
	}
	exp, err := h.service.Update(c.UserContext(), owner, c.Params("id"), UpdateInput{
		Amount:      amount,
		Category:    req.Category,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(toResponse(exp))
}

// Delete removes an expense.
func (h *Handler) Delete(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), owner, c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

// MonthlyTotals returns per-month sums over the filtered ledger, most recent
// month first.
func (h *Handler) MonthlyTotals(c *fiber.Ctx) error {
	owner, err := ownerFromLocals(c)
	if err != nil {
		return err
	}
	totals, err := h.service.MonthlyTotals(c.UserContext(), owner, queryFromCtx(c))
	if err != nil {
		return err
	}
	out := make([]monthlyTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, monthlyTotalResponse{Year: t.Year, Month: t.Month, Total: FormatCents(t.TotalCents)})
	}
	return c.Status(http.StatusOK).JSON(out)
}

func queryFromCtx(c *fiber.Ctx) Query {
	return Query{
		Category: c.Query("category"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
}

func ownerFromLocals(c *fiber.Ctx) (string, error) {
	owner, _ := c.Locals("owner_id").(string)
	if owner == "" {
		return "", apperr.ErrAuth
	}
	return owner, nil
}

func toResponse(exp Expense) expenseResponse {
	return expenseResponse{
		ID:          exp.ID,
		Amount:      FormatCents(exp.AmountCents),
		Category:    exp.Category,
		Date:        FormatDate(exp.Date),
		Description: exp.Description,
		CreatedAt:   exp.CreatedAt,
	}
}
