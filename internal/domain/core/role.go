package core

type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleTenant
}
