package authority

// Role is one of a fixed, closed set of back-office roles.
type Role string

const (
	RoleViewer        Role = "VIEWER"
	RoleConsultant    Role = "CONSULTANT"
	RoleHrAssistant   Role = "HR_ASSISTANT"
	RoleRecruiter     Role = "RECRUITER"
	RoleContentEditor Role = "CONTENT_EDITOR"
	RoleHrManager     Role = "HR_MANAGER"
	RoleAdmin         Role = "ADMIN"
	RoleSuperAdmin    Role = "SUPER_ADMIN"
)

// TopRole is the only role allowed to assign its own role to others.
const TopRole = RoleSuperAdmin

// RoleHierarchy ranks roles by authority, higher rank subsumes lower.
var RoleHierarchy = map[Role]int{
	RoleViewer:        0,
	RoleConsultant:    1,
	RoleHrAssistant:   2,
	RoleRecruiter:     3,
	RoleContentEditor: 4,
	RoleHrManager:     5,
	RoleAdmin:         6,
	RoleSuperAdmin:    7,
}

func IsValidRole(r Role) bool {
	_, ok := RoleHierarchy[r]
	return ok
}

// RankOf returns -1 for unknown roles so that any valid role outranks them.
func RankOf(r Role) int {
	rank, ok := RoleHierarchy[r]
	if !ok {
		return -1
	}
	return rank
}

func IsRoleHigherThan(a, b Role) bool {
	return RankOf(a) > RankOf(b)
}

func IsRoleHigherOrEqual(a, b Role) bool {
	return RankOf(a) >= RankOf(b)
}

// AssignableRoles lists the roles an actor with actingRole may grant to others:
// every role ranked strictly below its own, and for the top role also itself.
func AssignableRoles(actingRole Role) []Role {
	actingRank := RankOf(actingRole)
	if actingRank < 0 {
		return []Role{}
	}
	assignable := []Role{}
	for _, r := range allRolesByRank() {
		if RankOf(r) < actingRank || (actingRole == TopRole && r == TopRole) {
			assignable = append(assignable, r)
		}
	}
	return assignable
}

func allRolesByRank() []Role {
	return []Role{RoleViewer, RoleConsultant, RoleHrAssistant, RoleRecruiter,
		RoleContentEditor, RoleHrManager, RoleAdmin, RoleSuperAdmin}
}
