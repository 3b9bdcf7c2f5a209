package dbtime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod is a wall-clock time of day stored in a postgres TIME column.
type Tod struct{ time.Time }

func TodFrom(t time.Time) Tod {
	return Tod{Time: time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// ParseTod accepts "HH:MM" or "HH:MM:SS".
func ParseTod(s string) (Tod, error) {
	var t Tod
	return t, t.parse(s)
}

func (t *Tod) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*t = TodFrom(x)
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("tod: unsupported Scan type %T", v)
	}
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("tod: %q is not HH:MM[:SS]", s)
	}
	t.Time = tt
	return nil
}

func (t Tod) Value() (driver.Value, error) {
	return t.Format("15:04:05"), nil
}

func (t Tod) String() string { return t.Format("15:04") }

// Before reports whether t is earlier in the day than u.
func (t Tod) Before(u Tod) bool { return t.Time.Before(u.Time) }

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}

// ParseTodPtr treats nil and blank as "no time".
func ParseTodPtr(s *string) (*Tod, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseTod(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// OrderedTods reports whether end is after start when both are set.
func OrderedTods(start, end *Tod) bool {
	if start == nil || end == nil {
		return true
	}
	return start.Before(*end)
}
