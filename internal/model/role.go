package model

// Role user role as issued by the identity provider.
type Role string

const (
	RoleSuperAdmin         Role = "SUPER_ADMIN"
	RoleSchoolAdmin        Role = "SCHOOL_ADMIN"
	RoleClinicalSupervisor Role = "CLINICAL_SUPERVISOR"
	RoleClinicalPreceptor  Role = "CLINICAL_PRECEPTOR"
	RoleStudent            Role = "STUDENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSchoolAdmin, RoleClinicalSupervisor, RoleClinicalPreceptor, RoleStudent:
		return true
	}
	return false
}
