package middleware

import (
	"time"

	"cursifynova/backend/cache"

	"github.com/gofiber/fiber/v2"
)

// HeaderCache tells clients whether a GET was served from the cache.
const HeaderCache = "X-Cache"

// CacheResponse serves GET requests from the cache keyed by the original URL.
// On a miss the handler runs and a 200 response is stored for ttl, since hits
// are replayed as 200. Other methods pass straight through.
func CacheResponse(c *cache.Cache, ttl time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Method() != fiber.MethodGet {
			return ctx.Next()
		}

		key := cache.Key(ctx.OriginalURL())
		if body, ok := c.GetRaw(ctx.UserContext(), key); ok {
			ctx.Set(HeaderCache, "HIT")
			ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return ctx.Status(fiber.StatusOK).Send(body)
		}

		if err := ctx.Next(); err != nil {
			return err
		}
		ctx.Set(HeaderCache, "MISS")

		if ctx.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		// The response buffer is reused once the request finishes.
		body := append([]byte(nil), ctx.Response().Body()...)
		c.SetRaw(ctx.UserContext(), key, body, ttl)
		return nil
	}
}

// Invalidate runs the handler and, once it has answered with status < 400,
// deletes every cached key matching patterns. Deleting after the write
// commits keeps later reads from seeing pre-write data.
func Invalidate(c *cache.Cache, patterns ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return err
		}
		if ctx.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		for _, p := range patterns {
			c.DelPattern(ctx.UserContext(), p)
		}
		return nil
	}
}
