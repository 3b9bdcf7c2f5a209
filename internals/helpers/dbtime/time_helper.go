package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Locals keys filled by the session middleware.
const (
	LocChurchTimezone = "church_timezone" // string, e.g. "Asia/Seoul"
	LocChurchLoc      = "church_loc"      // *time.Location
)

const DefaultTimezone = "Asia/Seoul"

// GetChurchLocation resolves the session church's zone:
// cached *time.Location → timezone name from the session → Asia/Seoul → UTC.
func GetChurchLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return time.UTC
	}
	if loc, ok := c.Locals(LocChurchLoc).(*time.Location); ok && loc != nil {
		return loc
	}
	if s, ok := c.Locals(LocChurchTimezone).(string); ok && strings.TrimSpace(s) != "" {
		if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
			c.Locals(LocChurchLoc, loc)
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		c.Locals(LocChurchLoc, loc)
		return loc
	}
	return time.UTC
}

func NowInChurch(c *fiber.Ctx) time.Time {
	return time.Now().In(GetChurchLocation(c))
}

// TodayInChurch is the church-local calendar date at UTC midnight, the form dates are stored in.
func TodayInChurch(c *fiber.Ctx) time.Time {
	return DateOf(NowInChurch(c))
}
