package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. Used on routes returning personal
// data and presigned URLs.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
