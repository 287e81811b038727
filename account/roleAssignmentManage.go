package account

import (
	"context"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/misc"
	"recruitbase/persistence"
	"recruitbase/session"
)

var (
	AssignRoleFunc     = AssignRole
	RemoveRoleFunc     = RemoveRole
	QueryUserRolesFunc = QueryUserRoles
)

// AssignRole grants a role to a user. The actor needs the roles.assign
// permission and may only grant roles ranked strictly below its own highest
// role; only the top role may grant itself.
func AssignRole(targetUserID types.ID, r *RoleAssigning, sec *session.Session) (*UserRoleAssignment, error) {
	if sec == nil || !authority.HasPermission(sec.Identity(), authority.PermRolesAssign) {
		return nil, bizerror.ErrForbidden
	}
	if !authority.CanAssignRole(sec.Identity(), r.Role) {
		return nil, bizerror.ErrForbidden
	}

	var assignment UserRoleAssignment
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&User{ID: targetUserID}).First(&User{}).Error; err != nil {
			return err
		}

		existing, err := loadAssignments(tx, targetUserID)
		if err != nil {
			return err
		}
		now := time.Now()
		hasPrimary := false
		for _, a := range existing {
			if !a.toAuthority().Effective(now) {
				continue
			}
			if a.Role == r.Role {
				return bizerror.ErrRoleDuplicated
			}
			if a.IsPrimary {
				hasPrimary = true
			}
		}

		assignment = UserRoleAssignment{
			ID: misc.NextId(assignmentIdWorker), UserID: targetUserID, Role: r.Role,
			IsPrimary: !hasPrimary, IsActive: true,
			AssignedAt: now, AssignedBy: sec.Principal.ID, ExpiresAt: r.ExpiresAt,
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// RemoveRole deactivates a role assignment. A removed primary promotes the
// next-oldest active assignment in the same transaction; the last active
// role of a user cannot be removed.
func RemoveRole(targetUserID types.ID, role authority.Role, sec *session.Session) error {
	if sec == nil || !authority.HasPermission(sec.Identity(), authority.PermRolesAssign) {
		return bizerror.ErrForbidden
	}
	if !authority.CanAssignRole(sec.Identity(), role) {
		return bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadAssignments(tx, targetUserID)
		if err != nil {
			return err
		}

		now := time.Now()
		var removed *UserRoleAssignment
		remaining := []UserRoleAssignment{}
		for i := range existing {
			a := existing[i]
			if !a.toAuthority().Effective(now) {
				continue
			}
			if a.Role == role {
				removed = &existing[i]
			} else {
				remaining = append(remaining, a)
			}
		}
		if removed == nil {
			return bizerror.ErrRoleNotAssigned
		}
		if len(remaining) == 0 {
			return bizerror.ErrLastRole
		}

		if err := tx.Model(&UserRoleAssignment{}).Where("id = ?", removed.ID).
			Updates(map[string]interface{}{"is_active": false, "is_primary": false}).Error; err != nil {
			return err
		}

		if removed.IsPrimary {
			// remaining is ordered by assigned_at, oldest first
			successor := remaining[0]
			if err := tx.Model(&UserRoleAssignment{}).Where("id = ?", successor.ID).
				Update("is_primary", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func QueryUserRoles(targetUserID types.ID, sec *session.Session) ([]UserRoleAssignment, authority.ValidationResult, error) {
	if sec == nil || !authority.HasPermission(sec.Identity(), authority.PermUsersRead) {
		return nil, authority.ValidationResult{}, bizerror.ErrForbidden
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	assignments, err := loadAssignments(db, targetUserID)
	if err != nil {
		return nil, authority.ValidationResult{}, err
	}

	pure := []authority.RoleAssignment{}
	for _, a := range assignments {
		pure = append(pure, a.toAuthority())
	}
	return assignments, authority.ValidateAssignments(pure), nil
}

func loadAssignments(db *gorm.DB, userID types.ID) ([]UserRoleAssignment, error) {
	assignments := []UserRoleAssignment{}
	if err := db.Where(&UserRoleAssignment{UserID: userID}).Order("assigned_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
