package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spendtrack/spendtrack/internal/expense"
)

// RegisterExpenseRoutes wires the owner-scoped ledger endpoints. The summary
// route is registered before the parameterized one so "summary" is never
// taken for an expense id.
func RegisterExpenseRoutes(r fiber.Router, h *expense.Handler) {
	r.Post("/expenses", h.Create)
	r.Get("/expenses", h.List)
	r.Get("/expenses/summary/monthly", h.MonthlyTotals)
	r.Get("/expenses/:id", h.Get)
	r.Put("/expenses/:id", h.Update)
	r.Delete("/expenses/:id", h.Delete)
}
