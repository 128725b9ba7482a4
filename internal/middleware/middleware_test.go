package middleware

import (
	jwtPkg "WidgetBackend/pkg/jwt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testMiddleware(limit rate.Limit, burst int) Middleware {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(log, limit, burst)
}

func TestRequestIDMiddleware(t *testing.T) {
	m := testMiddleware(0, 0)
	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})

	t.Run("Should generate a request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Len(t, string(body), 26)
		assert.Equal(t, string(body), resp.Header.Get(RequestIDKey))
	})

	t.Run("Should keep a caller supplied id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(RequestIDKey, "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc", string(body))
	})

	t.Run("Should replace an unsafe caller id", func(t *testing.T) {
		for _, id := range []string{"bad id\n", strings.Repeat("a", 129), "<script>"} {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(RequestIDKey, id)
			resp, err := app.Test(req)
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Len(t, string(body), 26, id)
		}
	})
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	r := newRateLimiter(1, 1)
	now := time.Now()
	r.now = func() time.Time { return now }

	r.GetLimiterFrom("10.0.0.1")
	r.GetLimiterFrom("10.0.0.2")
	assert.Equal(t, 2, r.size())

	now = now.Add(idleVisitorTTL / 2)
	r.GetLimiterFrom("10.0.0.2")

	now = now.Add(idleVisitorTTL * 3 / 4)
	r.GetLimiterFrom("10.0.0.3")

	assert.Equal(t, 2, r.size())
	_, kept := r.visitors["10.0.0.2"]
	assert.True(t, kept)
}

func TestRateLimiter(t *testing.T) {
	m := testMiddleware(0.001, 2)
	app := fiber.New()
	app.Get("/", m.NewRateLimiter, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestTokenMiddleware(t *testing.T) {
	t.Setenv(AccessTokenSecret, "secret")
	m := testMiddleware(0, 0)
	app := fiber.New()
	app.Get("/", m.NewTokenMiddleware, func(c *fiber.Ctx) error {
		tenant, err := jwtPkg.GetTenantLoginData(c)
		if err != nil {
			return err
		}
		return c.JSON(tenant)
	})

	t.Run("Should expose the tenant to handlers", func(t *testing.T) {
		token, _, err := jwtPkg.Sign(map[string]interface{}{"tenant_id": "t-1", "email": "o@x.com"}, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"TenantID":"t-1","Email":"o@x.com"}`, string(body))
	})

	t.Run("Should reject missing tokens", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSanitizeRequestBody(t *testing.T) {
	t.Run("Should hide secrets", func(t *testing.T) {
		assert.JSONEq(t, `{"api_key":"[SECRET]","name":"x"}`, sanitizeRequestBody("/api/v1/knowledge/pages", `{"api_key":"abc","name":"x"}`))
	})

	t.Run("Should replace chat messages with their length", func(t *testing.T) {
		assert.JSONEq(t, `{"message":"[5 chars]","tenant_id":"t-1"}`, sanitizeRequestBody("/api/v1/chat", `{"message":"hello","tenant_id":"t-1"}`))
	})

	t.Run("Should flag non JSON bodies", func(t *testing.T) {
		assert.Equal(t, "[non-JSON body]", sanitizeRequestBody("/", "plain"))
	})
}
