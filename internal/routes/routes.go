package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/spendtrack/spendtrack/internal/account"
	"github.com/spendtrack/spendtrack/internal/auth"
	"github.com/spendtrack/spendtrack/internal/config"
	"github.com/spendtrack/spendtrack/internal/expense"
	"github.com/spendtrack/spendtrack/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database the repositories fall back to in-memory implementations, which is
// only permitted in development.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var accountRepo account.Repository
	var expenseRepo expense.Repository
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
		expenseRepo = expense.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		expenseRepo = expense.NewMemoryRepository()
	}

	accountSvc := account.NewService(accountRepo)
	issuer := auth.NewIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	authSvc := auth.NewService(accountSvc, issuer)
	expenseSvc := expense.NewService(expenseRepo)

	authHandler := auth.NewHandler(accountSvc, authSvc)
	expenseHandler := expense.NewHandler(expenseSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMinute)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes: everything below passes the access gate first.
	protected := api.Group("", middleware.TokenAuth(issuer))
	if d.Cache != nil {
		protected.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterDashboardRoute(protected, accountSvc)
	protected.Post("/auth/password", authHandler.ChangePassword)
	RegisterExpenseRoutes(protected, expenseHandler)

	return nil
}
