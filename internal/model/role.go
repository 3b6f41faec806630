package model

// Role is the portal audience a user belongs to. Dashboards are selected by role.
type Role string

const (
	// RoleProspective is a calon jamaah: registered but without a confirmed departure.
	RoleProspective Role = "calon_jamaah"
	// RolePilgrim is a jamaah with an approved payment for a package.
	RolePilgrim Role = "jamaah"
	// RoleAlumni is a jamaah whose itinerary has been completed.
	RoleAlumni Role = "alumni"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleProspective, RolePilgrim, RoleAlumni, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalises v into a known role. Unknown values fall back to RoleProspective.
func ParseRole(v string) Role {
	r := Role(v)
	if r.Valid() {
		return r
	}
	return RoleProspective
}
