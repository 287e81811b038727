package authority

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

// RoleAssignment binds a principal to a role. A principal may hold several
// simultaneous assignments; exactly one active assignment is primary.
type RoleAssignment struct {
	Role       Role       `json:"role"`
	IsPrimary  bool       `json:"isPrimary"`
	IsActive   bool       `json:"isActive"`
	AssignedAt time.Time  `json:"assignedAt"`
	AssignedBy types.ID   `json:"assignedBy"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// Effective reports whether the assignment currently grants its role:
// it must be active and not past its expiry.
func (a RoleAssignment) Effective(now time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.ExpiresAt != nil && a.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// Principal is the canonical authorization subject. Both legacy single-role
// users and multi-role users are expressed in this one shape; single-role is
// the degenerate case of exactly one primary active assignment.
type Principal struct {
	ID          types.ID         `json:"id"`
	Name        string           `json:"name"`
	Active      bool             `json:"active"`
	Assignments []RoleAssignment `json:"assignments"`
}

// SinglePrincipal adapts a legacy single-role user record.
func SinglePrincipal(id types.ID, name string, role Role) *Principal {
	return &Principal{
		ID: id, Name: name, Active: true,
		Assignments: []RoleAssignment{
			{Role: role, IsPrimary: true, IsActive: true, AssignedAt: time.Now()},
		},
	}
}

// ActiveRoles returns the roles of all currently effective assignments.
func ActiveRoles(p *Principal) []Role {
	if p == nil || !p.Active {
		return []Role{}
	}
	now := time.Now()
	roles := []Role{}
	for _, a := range p.Assignments {
		if a.Effective(now) && IsValidRole(a.Role) {
			roles = append(roles, a.Role)
		}
	}
	return roles
}

// PrimaryRole returns the role of the effective primary assignment,
// or "" when the principal has none.
func PrimaryRole(p *Principal) Role {
	if p == nil || !p.Active {
		return ""
	}
	now := time.Now()
	for _, a := range p.Assignments {
		if a.IsPrimary && a.Effective(now) {
			return a.Role
		}
	}
	return ""
}

// HighestRole returns the highest-ranked active role, or "" when none.
func HighestRole(p *Principal) Role {
	highest := Role("")
	rank := -1
	for _, r := range ActiveRoles(p) {
		if RankOf(r) > rank {
			highest, rank = r, RankOf(r)
		}
	}
	return highest
}

// AllUserPermissions returns the deduplicated union of effective permissions
// across all active roles.
func AllUserPermissions(p *Principal) []Permission {
	seen := map[Permission]bool{}
	perms := []Permission{}
	for _, r := range ActiveRoles(p) {
		for _, perm := range EffectivePermissions(r) {
			if !seen[perm] {
				seen[perm] = true
				perms = append(perms, perm)
			}
		}
	}
	return perms
}
