// Package middleware holds Fiber middleware shared across the HTTP
// surface.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/trailbeacon/core/internal/logging"
)

// RequestLogger logs method, path, status, and elapsed time for every
// request that passes through it.
func RequestLogger(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logging.L().Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}
