package main

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/configs"
	middlewares "churchku_backend/internals/middlewares"
)

func ipApp(t *testing.T, trusted []string) *fiber.App {
	t.Helper()
	configs.CorsOrigins = []string{"http://localhost:5173"}
	app := newApp(trusted)
	app.Get("/ip", func(c *fiber.Ctx) error { return c.SendString(c.IP()) })
	app.Post("/login", middlewares.LoginRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func send(t *testing.T, app *fiber.App, method, path, forwardedFor string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if forwardedFor != "" {
		req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	return resp.StatusCode, buf.String()
}

func TestForwardedForIgnoredFromUntrustedPeer(t *testing.T) {
	app := ipApp(t, nil)
	_, ip := send(t, app, "GET", "/ip", "203.0.113.7")
	assert.NotEqual(t, "203.0.113.7", ip)
}

func TestForwardedForHonouredFromTrustedProxy(t *testing.T) {
	app := ipApp(t, []string{"0.0.0.0/0"})
	_, ip := send(t, app, "GET", "/ip", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ip)
}

func TestLoginLimiterNotBypassedByForgedHeader(t *testing.T) {
	app := ipApp(t, nil)
	last := 0
	for i := 0; i < 6; i++ {
		last, _ = send(t, app, "POST", "/login", fmt.Sprintf("198.51.100.%d", i+1))
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}
