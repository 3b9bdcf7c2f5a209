package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"churchku_backend/internals/constants"
	helper "churchku_backend/internals/helpers"
	helperAuth "churchku_backend/internals/helpers/auth"
)

func roleMessage(min constants.ChurchRole, feature string) string {
	if min == constants.RoleSuperAdmin {
		return constants.RoleErrorSuperAdmin(feature)
	}
	return constants.RoleErrorAdmin(feature)
}

// RequireRole passes callers whose church role is at or above min in the selected church.
// Must run after AuthSession.
func RequireRole(min constants.ChurchRole, feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helperAuth.MustIdentity(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if _, err := helperAuth.GetChurchIDFromCtx(c); err != nil {
			return helper.FromError(c, err)
		}
		if !id.HasRole(min) {
			zap.L().Debug("role denied",
				zap.String("member_id", id.MemberID.String()),
				zap.String("role", string(id.Role)),
				zap.String("need", string(min)),
				zap.String("path", c.Path()),
			)
			return helper.FromError(c, helper.ErrForbidden(roleMessage(min, feature)))
		}
		return c.Next()
	}
}

// OnlyAdmins and OnlySuperAdmins are the two tiers the admin console mounts.
func OnlyAdmins(feature string) fiber.Handler {
	return RequireRole(constants.RoleAdmin, feature)
}

func OnlySuperAdmins(feature string) fiber.Handler {
	return RequireRole(constants.RoleSuperAdmin, feature)
}

// RequireSystemAdmin checks the system capability only; no church needs to be selected.
func RequireSystemAdmin(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helperAuth.MustIdentity(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if !id.IsSystemAdmin() {
			return helper.FromError(c, helper.ErrForbidden(constants.RoleErrorSystem(feature)))
		}
		return c.Next()
	}
}
