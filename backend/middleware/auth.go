package middleware

import (
	"cursifynova/backend/config"
	"cursifynova/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthedHandler receives the verified caller as an explicit argument.
type AuthedHandler func(c *fiber.Ctx, who utils.Identity) error

// Authed verifies the bearer token and hands the identity to h. Requests
// without a valid token are answered 401 and never reach h.
func Authed(cfg *config.Config, h AuthedHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := utils.ExtractIdentityFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, errMessage(err))
		}
		return h(c, who)
	}
}

// AdminOnly wraps h so only callers with the admin role get through.
func AdminOnly(h AuthedHandler) AuthedHandler {
	return func(c *fiber.Ctx, who utils.Identity) error {
		if !who.IsAdmin() {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}
		return h(c, who)
	}
}

func errMessage(err error) string {
	if fe, ok := err.(*fiber.Error); ok {
		return fe.Message
	}
	return "Unauthorized"
}
