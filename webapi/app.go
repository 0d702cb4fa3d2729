// Package webapi assembles the Fiber application serving the ledger.
package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/minibank/ledger/pkg/config"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
	"github.com/minibank/ledger/webapi/common"
	ledgerapi "github.com/minibank/ledger/webapi/ledger"
)

// SetupApp builds the Fiber app with rate limiting, panic recovery, and the
// ledger routes mounted.
func SetupApp(svc *ledgersvc.Service, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "minibank ledger",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			title := "Internal Server Error"
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
				title = e.Message
			}
			return common.ProblemDetailsJSON(c, title, err, status)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests", nil,
				"rate limit exceeded", fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("ledger is up")
	})

	ledgerapi.Routes(app, svc, cfg)

	return app
}
