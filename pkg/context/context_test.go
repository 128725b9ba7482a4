package context

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID(t *testing.T) {
	t.Run("Should return the stored request id", func(t *testing.T) {
		assert.Equal(t, "abc", GetRequestID(WithRequestID(context.Background(), "abc")))
	})

	t.Run("Should fall back to unknown", func(t *testing.T) {
		assert.Equal(t, "unknown", GetRequestID(context.Background()))
		assert.Equal(t, "unknown", GetRequestID(WithRequestID(context.Background(), "")))
	})
}

func TestGetTenantID(t *testing.T) {
	assert.Equal(t, "tenant-1", GetTenantID(WithTenantID(context.Background(), "tenant-1")))
	assert.Empty(t, GetTenantID(context.Background()))
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("X-Request-ID", "from-locals")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body := make([]byte, 64)
	n, _ := resp.Body.Read(body)
	assert.Equal(t, "from-locals", string(body[:n]))

	req := httptest.NewRequest("GET", "/header", nil)
	req.Header.Set("X-Request-ID", "from-header")
	resp, err = app.Test(req)
	require.NoError(t, err)
	n, _ = resp.Body.Read(body)
	assert.Equal(t, "from-header", string(body[:n]))
}
