package helper

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type pgSQLErr interface {
	SQLState() string
	Error() string
}

// mapDBError: gorm not-found and postgres constraint violations → status + message.
func mapDBError(err error) (int, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, MsgNotFound
	}
	state := ""
	var pgErr pgSQLErr
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr):
		state = string(pqErr.Code)
	case errors.As(err, &pgErr):
		state = pgErr.SQLState()
	}
	switch state {
	case "23505":
		return http.StatusConflict, MsgConflict
	case "23503":
		return http.StatusBadRequest, "참조하는 데이터가 존재하지 않습니다."
	case "23514":
		return http.StatusBadRequest, MsgValidation
	}
	return http.StatusInternalServerError, MsgInternal
}

// FromError renders err with the uniform error envelope. Unexpected errors are logged
// and collapsed into a generic 500.
func FromError(c *fiber.Ctx, err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		if len(ae.Fields) > 0 {
			return JsonErrorWithFields(c, ae.Status, ae.Message, ae.Fields)
		}
		return JsonError(c, ae.Status, ae.Message)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	code, msg := mapDBError(err)
	if code >= 500 {
		zap.L().Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Any("request_id", c.Locals("reqid")),
			zap.Error(err),
		)
	}
	return JsonError(c, code, msg)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so middleware errors share the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
