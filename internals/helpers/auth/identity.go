package helper

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"churchku_backend/internals/constants"
	helper "churchku_backend/internals/helpers"
	"churchku_backend/internals/helpers/dbtime"
)

// Locals keys
const (
	LocIdentity = "identity"
	LocMemberID = "member_id"
	LocChurchID = "church_id"
	LocRole     = "church_role"
)

// Identity is the tenant-scoped caller resolved from the session token.
type Identity struct {
	MemberID       uuid.UUID            `json:"member_id"`
	MemberName     string               `json:"member_name"`
	ChurchID       uuid.UUID            `json:"church_id"`
	ChurchName     string               `json:"church_name"`
	ChurchTimezone string               `json:"church_timezone"`
	Role           constants.ChurchRole `json:"role"`
	SystemRole     constants.SystemRole `json:"system_role"`

	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// HasRole reports whether the caller's church role is at or above need.
func (i *Identity) HasRole(need constants.ChurchRole) bool {
	return i != nil && constants.HasPermissionOver(i.Role, need)
}

func (i *Identity) IsSystemAdmin() bool {
	return i != nil && i.SystemRole.IsSystemAdmin()
}

// SetIdentity stores the identity and the plain values some handlers read directly.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(LocIdentity, id)
	c.Locals(LocMemberID, id.MemberID.String())
	c.Locals(LocChurchID, id.ChurchID.String())
	c.Locals(LocRole, string(id.Role))
	if id.ChurchTimezone != "" {
		c.Locals(dbtime.LocChurchTimezone, id.ChurchTimezone)
	}
}

// GetIdentity returns nil when the request carries no session.
func GetIdentity(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(LocIdentity).(*Identity)
	return id
}

// MustIdentity is GetIdentity for handlers mounted behind the session gate.
func MustIdentity(c *fiber.Ctx) (*Identity, error) {
	id := GetIdentity(c)
	if id == nil {
		return nil, helper.ErrUnauthenticated("")
	}
	return id, nil
}

// GetChurchIDFromCtx is the tenant every admin query is scoped to.
func GetChurchIDFromCtx(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := MustIdentity(c)
	if err != nil {
		return uuid.Nil, err
	}
	if id.ChurchID == uuid.Nil {
		return uuid.Nil, helper.ErrForbidden("교회가 선택되지 않았습니다.")
	}
	return id.ChurchID, nil
}
