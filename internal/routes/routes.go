package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/handlers"
	"github.com/minkhantzaw/vpnshop-backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	planHandler *handlers.PlanHandler,
	keyHandler *handlers.KeyHandler,
	paymentHandler *handlers.PaymentHandler,
	userHandler *handlers.UserHandler,
	entitlementHandler *handlers.EntitlementHandler,
	operatorHandler *handlers.OperatorConfigHandler,
	backupHandler *handlers.BackupHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Login gets a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/login", authHandler.Login)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(cfg))

	admin.Get("/plans", planHandler.List)
	admin.Get("/plans/:id", planHandler.Get)
	admin.Post("/plans", planHandler.Create)
	admin.Put("/plans/:id", planHandler.Update)
	admin.Delete("/plans/:id", planHandler.Delete)

	admin.Get("/plans/:id/keys", keyHandler.ListForPlan)
	admin.Post("/plans/:id/keys", keyHandler.Add)
	admin.Post("/plans/:id/keys/generate", keyHandler.Generate)
	admin.Delete("/keys/:id", keyHandler.Delete)
	admin.Get("/keys/statistics", keyHandler.Statistics)
	admin.Get("/keys/low-stock", keyHandler.LowStock)

	admin.Get("/payments", paymentHandler.List)
	admin.Get("/payments/pending", paymentHandler.ListPending)
	admin.Post("/payments/:id/approve", paymentHandler.Approve)
	admin.Post("/payments/:id/deny", paymentHandler.Deny)

	admin.Get("/users", userHandler.List)
	admin.Get("/users/:telegram_id", userHandler.Get)
	admin.Get("/users/:telegram_id/entitlements", userHandler.Entitlements)

	admin.Get("/entitlements", entitlementHandler.List)
	admin.Get("/entitlements/expiring", entitlementHandler.ExpiringSoon)
	admin.Post("/entitlements/reclaim-expired", entitlementHandler.ReclaimExpired)
	admin.Post("/keys/reclaim-orphans", entitlementHandler.ReclaimOrphans)

	admin.Get("/topups", operatorHandler.ListTopups)
	admin.Post("/topups", operatorHandler.CreateTopup)
	admin.Put("/topups/:id", operatorHandler.UpdateTopup)
	admin.Delete("/topups/:id", operatorHandler.DeleteTopup)

	admin.Get("/payment-methods", operatorHandler.ListPaymentMethods)
	admin.Post("/payment-methods", operatorHandler.CreatePaymentMethod)
	admin.Put("/payment-methods/:id", operatorHandler.UpdatePaymentMethod)
	admin.Delete("/payment-methods/:id", operatorHandler.DeletePaymentMethod)

	admin.Get("/contacts", operatorHandler.ListContacts)
	admin.Put("/contacts/:id", operatorHandler.UpdateContact)

	admin.Get("/backup", backupHandler.Download)
	admin.Post("/backup/restore", backupHandler.Restore)
}
