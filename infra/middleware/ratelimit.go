package middleware

import (
	"math"
	"strconv"

	"skincheck_server/pkg/apperr"
	"skincheck_server/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimit rejects requests the limiter refuses. Authenticated callers are
// keyed by user, everyone else by IP.
func RateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			key = "user:" + userID
		}

		allowed, wait := limiter.Allow(c.UserContext(), key)
		if !allowed {
			c.Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			return apperr.ErrRateLimited
		}
		return c.Next()
	}
}
