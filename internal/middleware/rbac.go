package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/codequest-dev/challenges-api/internal/utils"
)

// RequireRole guards a route so only users carrying one of the given roles
// may pass. The role is taken from the user_role local set by the JWT
// middleware and compared case-insensitively.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		if r := canonicalRole(role); r != "" {
			allowed[r] = true
		}
	}

	return func(c *fiber.Ctx) error {
		if !allowed[canonicalRole(localString(c, "user_role"))] {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func canonicalRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func localString(c *fiber.Ctx, key string) string {
	switch v := c.Locals(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
