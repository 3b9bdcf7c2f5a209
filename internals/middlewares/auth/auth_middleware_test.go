package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/constants"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

type fakeGate map[string]*helperAuth.Identity

func (g fakeGate) ParseSession(_ context.Context, raw string) *helperAuth.Identity {
	return g[raw]
}

func newApp(gate SessionParser, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	handlers := append([]fiber.Handler{AuthSession(gate)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		id := helperAuth.GetIdentity(c)
		return c.SendString(id.MemberName)
	})
	app.Get("/x", handlers...)
	return app
}

func call(t *testing.T, app *fiber.App, token string, cookie bool) (int, string) {
	req := httptest.NewRequest("GET", "/x", nil)
	if token != "" {
		if cookie {
			req.Header.Set("Cookie", helper.SessionCookie+"="+token)
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func errorMessage(t *testing.T, body string) string {
	var e helper.ErrorResponse
	require.NoError(t, sonic.UnmarshalString(body, &e))
	return e.Error
}

var (
	admin = &helperAuth.Identity{MemberID: uuid.New(), MemberName: "admin", ChurchID: uuid.New(), Role: constants.RoleAdmin}
	super = &helperAuth.Identity{MemberID: uuid.New(), MemberName: "super", ChurchID: uuid.New(), Role: constants.RoleSuperAdmin}
	root  = &helperAuth.Identity{MemberID: uuid.New(), MemberName: "root", SystemRole: constants.SystemRoleAdmin}
	gate  = fakeGate{"admin": admin, "super": super, "root": root}
)

func TestAuthSessionRequiresToken(t *testing.T) {
	app := newApp(gate)

	code, body := call(t, app, "", false)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, helper.MsgUnauthenticated, errorMessage(t, body))

	code, _ = call(t, app, "unknown", false)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestAuthSessionAcceptsCookieAndBearer(t *testing.T) {
	app := newApp(gate)

	code, body := call(t, app, "admin", true)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "admin", body)

	code, body = call(t, app, "super", false)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "super", body)
}

func TestRequireRoleHierarchy(t *testing.T) {
	adminApp := newApp(gate, OnlyAdmins("교인 관리"))
	superApp := newApp(gate, OnlySuperAdmins("심방"))

	code, _ := call(t, adminApp, "admin", false)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, adminApp, "super", false)
	assert.Equal(t, fiber.StatusOK, code)

	code, body := call(t, superApp, "admin", false)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, constants.RoleErrorSuperAdmin("심방"), errorMessage(t, body))
	code, _ = call(t, superApp, "super", false)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestChurchlessSessionOnlyPassesSystemGuard(t *testing.T) {
	adminApp := newApp(gate, OnlyAdmins("교인 관리"))
	systemApp := newApp(gate, RequireSystemAdmin("교회 관리"))

	code, _ := call(t, adminApp, "root", false)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = call(t, systemApp, "root", false)
	assert.Equal(t, fiber.StatusOK, code)

	code, body := call(t, systemApp, "super", false)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Equal(t, constants.RoleErrorSystem("교회 관리"), errorMessage(t, body))
}
