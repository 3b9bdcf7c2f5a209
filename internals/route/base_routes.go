package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/configs"
	databases "churchku_backend/internals/databases"
)

// BaseRoutes serves the root banner, uploaded files and the health probe.
func BaseRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("churchku backend running")
	})

	app.Static("/uploads", configs.UploadDir, fiber.Static{
		MaxAge:   86400,
		Compress: true,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err := databases.Ping(c.UserContext()); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"redis":          databases.Redis != nil,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    configs.AppEnv,
		})
	})
}
