package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultRateLimit = 5
	DefaultBurst     = 20
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	AllowIP(ip string) bool
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware(ctx *fiber.Ctx) error
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	loggerHandler       fiber.Handler
	log                 *logrus.Logger
}

// New builds the middleware set. reqRate and burst bound the public chat
// endpoints per client IP; non-positive values fall back to the defaults.
func New(logger *logrus.Logger, reqRate rate.Limit, burst int) Middleware {
	if reqRate <= 0 {
		reqRate = DefaultRateLimit
	}
	if burst <= 0 {
		burst = DefaultBurst
	}

	return &middleware{
		token:               newTokenMiddleware(),
		rateLimitter:        newRateLimiter(reqRate, burst),
		requestIDMiddleware: NewRequestIDMiddleware(),
		loggerHandler:       LoggerConfig(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
