package controller

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchku_backend/internals/constants"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
	"churchku_backend/internals/helpers/testdb"
)

func newApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, uuid.UUID) {
	db, mock := testdb.New(t)
	churchID := uuid.New()

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		helperAuth.SetIdentity(c, &helperAuth.Identity{
			MemberID: uuid.New(), ChurchID: churchID, Role: constants.RoleAdmin,
		})
		return c.Next()
	})
	ctl := NewEventController(db)
	app.Get("/events", ctl.List)
	app.Post("/events", ctl.Create)
	app.Patch("/events/:id", ctl.Patch)
	app.Delete("/events/:id", ctl.Delete)
	return app, mock, churchID
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestListEventsOfMonth(t *testing.T) {
	app, mock, churchID := newApp(t)

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE .*event_date BETWEEN .* ORDER BY event_date ASC`).
		WithArgs(churchID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "event_church_id", "event_title", "event_date", "event_start_time"}).
			AddRow(uuid.NewString(), churchID.String(), "부활절 연합예배", time.Date(2026, 3, 29, 0, 0, 0, 0, time.UTC), "11:00:00"))

	code, body := do(t, app, "GET", "/events?year=2026&month=3", "")
	require.Equal(t, fiber.StatusOK, code, body)

	var out struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(body, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "부활절 연합예배", out.Data[0]["event_title"])
	assert.Equal(t, "11:00", out.Data[0]["event_start_time"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRejectsBadMonth(t *testing.T) {
	app, mock, _ := newApp(t)

	code, _ := do(t, app, "GET", "/events?year=2026&month=13", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	app, mock, _ := newApp(t)

	code, _ := do(t, app, "POST", "/events",
		`{"event_title":"구역장 모임","event_date":"2026-03-10","event_start_time":"19:00","event_end_time":"18:30"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEvent(t *testing.T) {
	app, mock, _ := newApp(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "events"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	code, body := do(t, app, "POST", "/events",
		`{"event_title":" 구역장 모임 ","event_date":"2026-03-10","event_start_time":"19:00","event_end_time":"21:00"}`)
	require.Equal(t, fiber.StatusCreated, code, body)
	assert.Contains(t, body, `"event_title":"구역장 모임"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnknownEvent(t *testing.T) {
	app, mock, _ := newApp(t)

	mock.ExpectQuery(`SELECT \* FROM "events"`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id"}))

	code, _ := do(t, app, "DELETE", "/events/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
