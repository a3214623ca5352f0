package domain

// UserRole is the application-wide role of a user.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// Permission names checked by the access service.
const (
	PermVouchersCreate = "vouchers.create"
	PermVouchersView   = "vouchers.view"
	PermVouchersDelete = "vouchers.delete"
	PermReportsView    = "reports.view"
	PermDashboardView  = "dashboard.view"
	PermHeadsManage    = "heads.manage"
)

// KnownPermissions is the set of grantable permissions.
var KnownPermissions = map[string]bool{
	PermVouchersCreate: true,
	PermVouchersView:   true,
	PermVouchersDelete: true,
	PermReportsView:    true,
	PermDashboardView:  true,
	PermHeadsManage:    true,
}

// AppUser is the access record of a user known to the identity provider.
type AppUser struct {
	UserID      string          `json:"userID"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Role        UserRole        `json:"role"`
	Active      bool            `json:"active"`
	Permissions map[string]bool `json:"permissions"`
	AuditFields
}

// IsAdmin reports whether the user holds the admin role.
func (u *AppUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Can reports whether an active user may perform the action guarded by permission.
func (u *AppUser) Can(permission string) bool {
	if u == nil || !u.Active {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Permissions[permission]
}
