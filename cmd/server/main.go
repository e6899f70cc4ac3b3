package main

import (
	"log"

	"inventory-backend/internal/approval"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/brands"
	"inventory-backend/internal/config"
	"inventory-backend/internal/dashboard"
	"inventory-backend/internal/database"
	"inventory-backend/internal/history"
	"inventory-backend/internal/inventory"
	"inventory-backend/internal/models"
	"inventory-backend/internal/request"
	"inventory-backend/internal/staging"
	"inventory-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	database.Init(cfg)

	files, err := uploads.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Upload store gagal disiapkan: %v", err)
	}
	store := staging.NewStore()

	app := fiber.New(fiber.Config{
		AppName: "inventory-backend",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Terjadi kesalahan pada server"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": msg})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))

	api := app.Group("/api")

	// Publik
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Semua route di bawah ini wajib login
	api.Use(auth.JWTMiddleware(cfg))
	admin := auth.RequireRole(models.RoleAdmin)

	api.Get("/auth/me", auth.MeHandler())
	api.Post("/users", admin, auth.CreateUserHandler())

	api.Get("/brands", brands.ListHandler())
	api.Post("/brands", admin, brands.CreateHandler())
	api.Post("/brands/:name/reset", admin, brands.ResetHandler())

	api.Get("/items", inventory.ListItemsHandler())
	api.Post("/items", admin, inventory.CreateItemHandler())
	api.Post("/items/import", admin, inventory.ImportMasterHandler())
	api.Get("/items/export", inventory.ExportItemsHandler())
	api.Get("/templates/:kind", inventory.TemplateHandler())
	api.Get("/stock-card", inventory.StockCardHandler())

	api.Get("/staging/:type", request.ListStagingHandler(store))
	api.Post("/staging/:type", request.AddLineHandler(store))
	api.Post("/staging/:type/import", request.ImportStagingHandler(store))
	api.Put("/staging/:type/selection", request.SelectionHandler(store))
	api.Delete("/staging/:type/selected", request.RemoveSelectedHandler(store))
	api.Delete("/staging/:type", request.ClearStagingHandler(store))
	api.Post("/staging/:type/submit", request.SubmitHandler(store, files))

	api.Get("/requests", admin, approval.ListPendingHandler())
	api.Post("/requests/approve", admin, approval.ApproveHandler())
	api.Post("/requests/reject", admin, approval.RejectHandler())

	api.Get("/history", admin, history.ListHandler())
	api.Get("/history/mine", history.MineHandler())

	api.Get("/dashboard", admin, dashboard.Handler())
	api.Get("/attachments/:name", uploads.DownloadHandler(files))

	log.Printf("Server jalan di port %s", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("Server gagal jalan: %v", err)
	}
}
