package authz

import (
	"tarsier/internal/entities"
)

type Context struct {
	Actor       *entities.User
	Permissions map[string]bool
	Target      interface{}
}

func NewContext(actor *entities.User, target interface{}) Context {
	return Context{Actor: actor, Permissions: PermissionsFor(actor), Target: target}
}

func (c *Context) HasPermission(permission string) bool {
	return c.Permissions[Superuser] || c.Permissions[permission]
}

// canAccessBooking - удалить бронирование может только его владелец.
func canAccessBooking(ctx Context, permission string, target *entities.Booking) bool {
	if permission == BookingsDelete {
		return target.UserID == ctx.Actor.ID
	}
	return true
}

// canAccessLeak - менять и удалять утечку может только её автор.
func canAccessLeak(ctx Context, permission string, target *entities.Leak) bool {
	if permission == LeaksUpdate || permission == LeaksDelete {
		return target.CreatedBy == ctx.Actor.ID
	}
	return true
}

func CanDo(permission string, ctx Context) bool {
	if ctx.Actor == nil {
		return false
	}

	if ctx.Permissions[Superuser] {
		return true
	}

	if !ctx.HasPermission(permission) {
		return false
	}

	if ctx.Target == nil {
		return true
	}

	switch target := ctx.Target.(type) {
	case *entities.Booking:
		return canAccessBooking(ctx, permission, target)
	case *entities.Leak:
		return canAccessLeak(ctx, permission, target)
	}

	return true
}
