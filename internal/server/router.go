package server

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"igp-sales-backend/internal/audit"
	"igp-sales-backend/internal/auth"
	"igp-sales-backend/internal/config"
	"igp-sales-backend/internal/inventory"
	"igp-sales-backend/internal/models"
	"igp-sales-backend/internal/reports"
	"igp-sales-backend/internal/sales"
	"igp-sales-backend/internal/store"
)

// New builds the fiber app with every route registered, so tests can exercise
// the full HTTP surface through app.Test.
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			slog.Error("unexpected error", "path", c.Path(), "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	st := store.New(db)
	recorder := audit.NewRecorder(db)
	inv := inventory.NewHandler(st, recorder)
	sal := sales.NewHandler(st, recorder)
	rep := reports.NewHandler(st)

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg, db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Inventory
	protected.Post("/lots", inv.CreateLot)
	protected.Get("/lots", inv.ListLots)
	protected.Get("/lots/available", inv.AvailableLot)
	protected.Put("/lots/:id", inv.UpdateLot)
	protected.Post("/lots/:id/stock", inv.AdjustLotStock)
	protected.Post("/stock-adjustments", inv.AdjustStockByProduct)
	protected.Get("/products", inv.ListProducts)
	protected.Get("/products/sizes", inv.ListSizes)

	// Sales
	protected.Post("/transactions", sal.Record)
	protected.Put("/transactions/:id", sal.Update)
	protected.Get("/transactions", sal.List)
	protected.Get("/transactions/search", sal.Search)

	// Reports
	protected.Get("/reports/monthly", rep.Monthly)
	protected.Get("/reports/monthly/export", rep.ExportMonthly)
	protected.Get("/reports/range", rep.Range)
	protected.Get("/reports/range/export", rep.ExportRange)

	// Admin only
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/auth/users", auth.CreateUserHandler(cfg, db))
	adminRoutes.Delete("/lots/:id", inv.DeleteLot)
	adminRoutes.Get("/audit-logs", audit.ListHandler(db))

	return app
}
