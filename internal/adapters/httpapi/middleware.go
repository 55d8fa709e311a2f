package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// NewRateLimiter returns middleware enforcing a process-wide request
// budget. All callers share one token bucket; requests over the budget
// get 429 without touching the mediator.
func NewRateLimiter(requestsPerSecond float64, burst int) fiber.Handler {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)

	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
