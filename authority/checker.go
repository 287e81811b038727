package authority

// All checks in this file are pure and fail closed: a nil or inactive
// principal, an unknown role or an empty assignment list always yields the
// most restrictive answer, never an error.

func HasPermission(p *Principal, perm Permission) bool {
	if p == nil || !p.Active {
		return false
	}
	for _, r := range ActiveRoles(p) {
		for _, granted := range EffectivePermissions(r) {
			if granted == perm {
				return true
			}
		}
	}
	return false
}

func HasAllPermissions(p *Principal, perms ...Permission) bool {
	for _, perm := range perms {
		if !HasPermission(p, perm) {
			return false
		}
	}
	return true
}

func HasAnyPermission(p *Principal, perms ...Permission) bool {
	for _, perm := range perms {
		if HasPermission(p, perm) {
			return true
		}
	}
	return false
}

// CanAssignRole reports whether the principal may grant target to somebody.
// The grant must be covered by the principal's highest active role.
func CanAssignRole(p *Principal, target Role) bool {
	if p == nil || !p.Active || !IsValidRole(target) {
		return false
	}
	highest := HighestRole(p)
	if highest == "" {
		return false
	}
	for _, r := range AssignableRoles(highest) {
		if r == target {
			return true
		}
	}
	return false
}

// AccessLevel is a coarse bucket used for UI gating only, never for
// authorization decisions.
type AccessLevel string

const (
	AccessNone  AccessLevel = "none"
	AccessRead  AccessLevel = "read"
	AccessWrite AccessLevel = "write"
	AccessAdmin AccessLevel = "admin"
	AccessSuper AccessLevel = "super"
)

var roleAccessLevels = map[Role]AccessLevel{
	RoleViewer:        AccessRead,
	RoleConsultant:    AccessRead,
	RoleHrAssistant:   AccessRead,
	RoleRecruiter:     AccessWrite,
	RoleContentEditor: AccessWrite,
	RoleHrManager:     AccessAdmin,
	RoleAdmin:         AccessAdmin,
	RoleSuperAdmin:    AccessSuper,
}

func AccessLevelOf(p *Principal) AccessLevel {
	highest := HighestRole(p)
	if highest == "" {
		return AccessNone
	}
	level, ok := roleAccessLevels[highest]
	if !ok {
		return AccessNone
	}
	return level
}
