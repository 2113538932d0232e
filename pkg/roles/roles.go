package roles

// Role is a user's permission level.
type Role string

const (
	User       Role = "user"
	Admin      Role = "admin"
	SuperAdmin Role = "super_admin"
)

type HierarchyLevel int

const (
	UnknownLevel    HierarchyLevel = 0
	UserLevel       HierarchyLevel = 1
	AdminLevel      HierarchyLevel = 2
	SuperAdminLevel HierarchyLevel = 3
)

// GetHierarchyLevel returns UnknownLevel for roles outside the hierarchy.
func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case Admin:
		return AdminLevel
	case SuperAdmin:
		return SuperAdminLevel
	default:
		return UnknownLevel
	}
}

// HasPermission reports whether r is at or above requiredRole.
func (r Role) HasPermission(requiredRole Role) bool {
	if !r.IsValid() || !requiredRole.IsValid() {
		return false
	}
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Admin, SuperAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
