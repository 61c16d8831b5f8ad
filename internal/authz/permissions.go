// internal/authz/permissions.go
package authz

import "tarsier/internal/entities"

const (
	Superuser = "superuser"

	// Оборудование
	EquipmentsView   = "equipments:view"
	EquipmentsManage = "equipments:manage"

	// Справочники: типы оборудования, типы миссий
	CatalogsView   = "catalogs:view"
	CatalogsManage = "catalogs:manage"

	// Периметры
	PerimetersView   = "perimeters:view"
	PerimetersManage = "perimeters:manage"

	// Бронирования
	BookingsCreate       = "bookings:create"
	BookingsView         = "bookings:view"
	BookingsDelete       = "bookings:delete"
	BookingsUpdateStatus = "bookings:status:update"

	// Утечки и отчёты
	LeaksCreate = "leaks:create"
	LeaksView   = "leaks:view"
	LeaksUpdate = "leaks:update"
	LeaksDelete = "leaks:delete"
	ReportsView = "reports:view"

	// Пользователи
	UsersView   = "users:view"
	UsersManage = "users:manage"

	// Периодичность контроля
	FrequencyView   = "frequency:view"
	FrequencyManage = "frequency:manage"
)

// userPermissions - права обычного пользователя. Админ получает Superuser.
var userPermissions = []string{
	EquipmentsView,
	CatalogsView,
	PerimetersView,
	BookingsCreate,
	BookingsView,
	BookingsDelete,
	LeaksCreate,
	LeaksView,
	LeaksUpdate,
	LeaksDelete,
	ReportsView,
	FrequencyView,
}

func PermissionsFor(user *entities.User) map[string]bool {
	if user == nil {
		return map[string]bool{}
	}
	if user.IsAdmin {
		return map[string]bool{Superuser: true}
	}
	perms := make(map[string]bool, len(userPermissions))
	for _, p := range userPermissions {
		perms[p] = true
	}
	return perms
}
