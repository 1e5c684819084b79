package middleware

import (
	"log/slog"
	"sync"

	"github.com/gofiber/fiber/v2"
)

type cachedResponse struct {
	status int
	body   []byte
}

// Idempotency replays the cached response for a repeated
// Idempotency-Key instead of running the mutation again. The cache is
// in-process: the ledger is single-process by construction, so there is
// no shared table to coordinate through.
func Idempotency() fiber.Handler {
	var mu sync.Mutex
	seen := make(map[string]cachedResponse)

	return func(c *fiber.Ctx) error {
		// 1. Get Key from Header
		key := c.Get("Idempotency-Key")

		// If no key, skip
		if key == "" {
			return c.Next()
		}

		// 2. Check if we already answered this key
		mu.Lock()
		cached, ok := seen[key]
		mu.Unlock()
		if ok {
			slog.Info("🛑 Idempotency Hit! Returning cached response", "key", key)
			c.Set("X-Idempotency-Hit", "true")
			c.Set("Content-Type", "application/json")
			return c.Status(cached.status).Send(cached.body)
		}

		// 3. Run the Handler
		if err := c.Next(); err != nil {
			return err
		}

		// 4. Save the Result
		body := append([]byte(nil), c.Response().Body()...)
		mu.Lock()
		seen[key] = cachedResponse{status: c.Response().StatusCode(), body: body}
		mu.Unlock()

		return nil
	}
}
