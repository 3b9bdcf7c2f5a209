package helper

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleRequest struct {
	Title string `json:"title" validate:"required,max=20"`
}

func (r *titleRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func parseBodyApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/", func(c *fiber.Ctx) error {
		var req titleRequest
		if err := ParseBody(c, &req); err != nil {
			return FromError(c, err)
		}
		return c.SendString(req.Title)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, string) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	buf := new(strings.Builder)
	_, _ = io.Copy(buf, resp.Body)
	return resp.StatusCode, buf.String()
}

func TestParseBodyRejectsWhitespaceOnlyRequiredField(t *testing.T) {
	code, body := postJSON(t, parseBodyApp(), `{"title":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body, "Title")
}

func TestParseBodyNormalizesBeforeHandler(t *testing.T) {
	code, body := postJSON(t, parseBodyApp(), `{"title":"  새벽기도  "}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "새벽기도", body)
}

func TestParseBodyRejectsMalformedJSON(t *testing.T) {
	code, _ := postJSON(t, parseBodyApp(), `{"title":`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}
