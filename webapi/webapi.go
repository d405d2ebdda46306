// Package webapi exposes the ledger over HTTP. It is organized into
// sub-packages per resource:
// - account: Accounts, money movements and history
// - customer: Customer directory
// - auth: Operator login
package webapi

import (
	"errors"
	"strings"

	_ "github.com/amirasaad/bank/docs" // registers the swagger document
	"github.com/amirasaad/bank/pkg/app"
	"github.com/amirasaad/bank/pkg/middleware"
	accountweb "github.com/amirasaad/bank/webapi/account"
	authweb "github.com/amirasaad/bank/webapi/auth"
	"github.com/amirasaad/bank/webapi/common"
	customerweb "github.com/amirasaad/bank/webapi/customer"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/swagger"
)

// SetupApp builds the fiber application with every route and middleware.
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		AppName: "bank",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := common.ErrorToStatusCode(err)
			return common.ProblemDetailsJSON(c, utils.StatusMessage(status), err, status)
		},
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(requestid.New())
	if m := a.Deps.Metrics; m != nil {
		fiberApp.Use(m.Middleware())
		fiberApp.Get(cfg.Metrics.Path, m.Handler())
	}
	fiberApp.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	fiberApp.Use(limiter.New(limiter.Config{
		Max:          cfg.RateLimit.MaxRequests,
		Expiration:   cfg.RateLimit.Window,
		Storage:      a.Deps.LimiterStorage,
		KeyGenerator: limiterKey,
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Bank API is running")
	})
	fiberApp.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protect := middleware.Protected(a.AuthService)
	authweb.Routes(fiberApp, a.AuthService)
	customerweb.Routes(fiberApp, a.CustomerService, protect)
	accountweb.Routes(fiberApp, a.AccountService, protect)
	return fiberApp
}

// limiterKey uses X-Forwarded-For when behind a proxy, then X-Real-IP, then
// the peer address. Header values point into the request buffer, which fiber
// reuses, so the limiter gets its own copy.
func limiterKey(c *fiber.Ctx) string {
	if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return utils.CopyString(strings.TrimSpace(first))
	}
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return utils.CopyString(realIP)
	}
	return utils.CopyString(c.IP())
}
