package authority

import (
	"fmt"
	"time"
)

// ValidationResult reports invariant violations on a set of role assignments.
// It is returned, never thrown: the caller decides whether a violation
// rejects a write or merely warns.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateAssignments checks the assignment invariants:
// at least one assignment, exactly one active primary, no duplicated active
// role, and no assignment still flagged active past its expiry. Stale expiry
// state is flagged, not auto-corrected.
func ValidateAssignments(assignments []RoleAssignment) ValidationResult {
	errs := []string{}
	now := time.Now()

	if len(assignments) == 0 {
		errs = append(errs, "at least one role assignment is required")
	}

	primaries := 0
	activeRoles := map[Role]int{}
	for _, a := range assignments {
		if a.IsActive && a.ExpiresAt != nil && a.ExpiresAt.Before(now) {
			errs = append(errs, fmt.Sprintf("assignment of role %s is expired but still flagged active", a.Role))
			continue
		}
		if !a.Effective(now) {
			continue
		}
		if a.IsPrimary {
			primaries++
		}
		activeRoles[a.Role]++
	}

	if len(assignments) > 0 && primaries != 1 {
		errs = append(errs, fmt.Sprintf("expected exactly one active primary assignment, found %d", primaries))
	}
	for role, count := range activeRoles {
		if count > 1 {
			errs = append(errs, fmt.Sprintf("role %s appears %d times among active assignments", role, count))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
