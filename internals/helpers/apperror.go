package helper

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError carries an HTTP status and a user-facing message.
type AppError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string { return e.Message }

func ErrUnauthenticated(msg string) error {
	if msg == "" {
		msg = MsgUnauthenticated
	}
	return &AppError{Status: fiber.StatusUnauthorized, Message: msg}
}

func ErrForbidden(msg string) error {
	if msg == "" {
		msg = MsgForbidden
	}
	return &AppError{Status: fiber.StatusForbidden, Message: msg}
}

func ErrNotFound(msg string) error {
	if msg == "" {
		msg = MsgNotFound
	}
	return &AppError{Status: fiber.StatusNotFound, Message: msg}
}

func ErrValidation(msg string) error {
	if msg == "" {
		msg = MsgValidation
	}
	return &AppError{Status: fiber.StatusBadRequest, Message: msg}
}

func ErrValidationFields(fields map[string]string) error {
	return &AppError{Status: fiber.StatusBadRequest, Message: MsgValidation, Fields: fields}
}

func ErrConflict(msg string) error {
	if msg == "" {
		msg = MsgConflict
	}
	return &AppError{Status: fiber.StatusConflict, Message: msg}
}

// Wrap annotates err without losing its AppError identity.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// StatusOf returns the HTTP status err would be rendered with.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	code, _ := mapDBError(err)
	return code
}

const (
	MsgUnauthenticated = "로그인이 필요합니다."
	MsgForbidden       = "권한이 없습니다."
	MsgNotFound        = "데이터를 찾을 수 없습니다."
	MsgValidation      = "입력값을 확인해주세요."
	MsgConflict        = "이미 존재하는 데이터입니다."
	MsgInternal        = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	MsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)
