package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"umrahportal/internal/model"
)

// Identity headers set by the upstream auth proxy.
const (
	UserIDHeader    = "X-User-ID"
	UserRoleHeader  = "X-User-Role"
	UserEmailHeader = "X-User-Email"

	identityLocalKey = "identity"
)

// Identity is the caller as asserted by the auth proxy.
type Identity struct {
	UserID string
	Email  string
	Role   model.Role
}

// ProxyIdentity reads the identity headers into the request locals.
// Requests without headers pass through with an empty identity.
func ProxyIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity{
			UserID: strings.TrimSpace(c.Get(UserIDHeader)),
			Email:  strings.TrimSpace(c.Get(UserEmailHeader)),
		}
		if raw := strings.ToLower(strings.TrimSpace(c.Get(UserRoleHeader))); raw != "" {
			id.Role = model.ParseRole(raw)
		}
		c.Locals(identityLocalKey, id)
		return c.Next()
	}
}

// IdentityFrom returns the identity stored by ProxyIdentity.
func IdentityFrom(c *fiber.Ctx) Identity {
	id, _ := c.Locals(identityLocalKey).(Identity)
	return id
}

// RequireIdentity rejects requests that carry no user ID.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IdentityFrom(c).UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}
		return c.Next()
	}
}

// RequireRole rejects callers whose asserted role is not one of roles.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		if id.UserID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing identity")
		}
		for _, r := range roles {
			if id.Role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}
