// Package middleware provides HTTP middleware shared by the web API routes.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/minibank/ledger/pkg/config"
)

// JwtProtected guards a route with HS256 bearer-token authentication. The
// verified token is stored in c.Locals("user") for handlers to read.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid token")
		},
	})
}
