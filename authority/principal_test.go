package authority

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSinglePrincipalIsDegenerateMultiRole(t *testing.T) {
	p := SinglePrincipal(42, "alice", RoleRecruiter)

	assert.Equal(t, []Role{RoleRecruiter}, ActiveRoles(p))
	assert.Equal(t, RoleRecruiter, PrimaryRole(p))
	assert.Equal(t, RoleRecruiter, HighestRole(p))
	assert.True(t, ValidateAssignments(p.Assignments).IsValid)
}

func TestActiveRolesFiltersInactiveAndExpired(t *testing.T) {
	expired := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	p := &Principal{ID: 1, Active: true, Assignments: []RoleAssignment{
		{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: time.Now()},
		{Role: RoleConsultant, IsActive: false, AssignedAt: time.Now()},
		{Role: RoleAdmin, IsActive: true, AssignedAt: time.Now(), ExpiresAt: &expired},
		{Role: RoleViewer, IsActive: true, AssignedAt: time.Now(), ExpiresAt: &future},
	}}

	assert.Equal(t, []Role{RoleRecruiter, RoleViewer}, ActiveRoles(p))
	assert.Equal(t, RoleRecruiter, HighestRole(p))

	p.Active = false
	assert.Empty(t, ActiveRoles(p))
	assert.Equal(t, Role(""), PrimaryRole(p))
	assert.Equal(t, Role(""), HighestRole(p))
	assert.Empty(t, AllUserPermissions(p))
}

func TestPrimaryRoleIgnoresExpiredPrimary(t *testing.T) {
	expired := time.Now().Add(-time.Minute)
	p := &Principal{ID: 1, Active: true, Assignments: []RoleAssignment{
		{Role: RoleAdmin, IsPrimary: true, IsActive: true, AssignedAt: time.Now(), ExpiresAt: &expired},
		{Role: RoleConsultant, IsActive: true, AssignedAt: time.Now()},
	}}
	assert.Equal(t, Role(""), PrimaryRole(p))
}

func TestAllUserPermissionsIsDeduplicatedUnion(t *testing.T) {
	p := &Principal{ID: 1, Active: true, Assignments: []RoleAssignment{
		{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: time.Now()},
		{Role: RoleHrAssistant, IsActive: true, AssignedAt: time.Now()},
	}}
	perms := AllUserPermissions(p)

	seen := map[Permission]bool{}
	for _, perm := range perms {
		assert.False(t, seen[perm], "%s returned twice", perm)
		seen[perm] = true
	}
	// applications.read is held by both roles, once directly, once inherited
	assert.Contains(t, perms, PermApplicationsRead)
	assert.Contains(t, perms, PermApplicationsManage)
	assert.Contains(t, perms, PermHiresRead)
	assert.Contains(t, perms, PermArticlesRead)
}

func TestValidateAssignments(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)

	t.Run("empty assignment list is invalid", func(t *testing.T) {
		result := ValidateAssignments(nil)
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "at least one role assignment is required")
	})

	t.Run("exactly one active primary is required", func(t *testing.T) {
		result := ValidateAssignments([]RoleAssignment{
			{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: now},
			{Role: RoleConsultant, IsPrimary: true, IsActive: true, AssignedAt: now},
		})
		assert.False(t, result.IsValid)

		result = ValidateAssignments([]RoleAssignment{
			{Role: RoleRecruiter, IsActive: true, AssignedAt: now},
		})
		assert.False(t, result.IsValid)
	})

	t.Run("duplicated active role is flagged", func(t *testing.T) {
		result := ValidateAssignments([]RoleAssignment{
			{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: now},
			{Role: RoleRecruiter, IsActive: true, AssignedAt: now},
		})
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "role RECRUITER appears 2 times among active assignments")
	})

	t.Run("stale expired-but-active assignment is flagged, not corrected", func(t *testing.T) {
		result := ValidateAssignments([]RoleAssignment{
			{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: now},
			{Role: RoleAdmin, IsActive: true, AssignedAt: now, ExpiresAt: &expired},
		})
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors, "assignment of role ADMIN is expired but still flagged active")
	})

	t.Run("valid multi-role set", func(t *testing.T) {
		result := ValidateAssignments([]RoleAssignment{
			{Role: RoleRecruiter, IsPrimary: true, IsActive: true, AssignedAt: now},
			{Role: RoleConsultant, IsActive: true, AssignedAt: now},
			{Role: RoleAdmin, IsActive: false, AssignedAt: now},
		})
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})
}
