package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"churchku_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the chain shared by every route: request id, timeout, recover,
// access log, CORS and the global limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RequestID())
	app.Use(RequestTimeout(5 * time.Second))
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
