package helper

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// Validator returns the shared validator instance.
func Validator() *validator.Validate { return validate }

// ValidateStruct runs the struct tags and converts failures into a 400 with a field map.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return ErrValidation("")
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return ErrValidationFields(fields)
}

// Normalizer is implemented by requests that trim or fold their fields.
type Normalizer interface {
	Normalize()
}

// ParseBody decodes the JSON body into dst, normalizes it and validates it. Normalizing
// first makes a whitespace-only required field fail "required".
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrValidation("요청 형식이 올바르지 않습니다.")
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	return ValidateStruct(dst)
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	s := strings.TrimSpace(c.Params(name))
	if s == "" {
		return uuid.Nil, ErrValidation(name + " 값이 필요합니다.")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrValidation(name + " 형식이 올바르지 않습니다.")
	}
	return id, nil
}

func ParseUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, ErrValidation(name + " 형식이 올바르지 않습니다.")
	}
	return &id, nil
}

// QueryInt returns ?name= as int, def when absent; malformed values are a validation error.
func QueryInt(c *fiber.Ctx, name string, def int) (int, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrValidation(name + " 값은 숫자여야 합니다.")
	}
	return n, nil
}

const DateLayout = "2006-01-02"

// ParseDate parses YYYY-MM-DD into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrValidation("날짜 형식은 YYYY-MM-DD 입니다.")
	}
	return t, nil
}

func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
