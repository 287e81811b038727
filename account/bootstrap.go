package account

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"

	"recruitbase/authority"
	"recruitbase/persistence"
)

// DefaultSecurityConfiguration seeds the initial administrator account.
// User 1 holds the top role so every other role can be assigned from it.
func DefaultSecurityConfiguration() error {
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	return db.Transaction(func(tx *gorm.DB) error {
		admin := User{}
		err := tx.Model(&User{}).Where(&User{ID: 1}).First(&admin).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			initialAdminPassword := os.ExpandEnv("${INITIAL_ADMIN_PASSWORD}")
			if initialAdminPassword == "" {
				initialAdminPassword = "admin123"
			}
			admin = User{ID: 1, Name: "admin", Secret: HashSha256(initialAdminPassword),
				Enabled: true, CreateTime: types.CurrentTimestamp()}
			if err := tx.Save(&admin).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		assignment := UserRoleAssignment{}
		err = tx.Model(&UserRoleAssignment{}).
			Where(&UserRoleAssignment{UserID: 1, Role: authority.RoleSuperAdmin}).
			First(&assignment).Error
		if err != nil && errors.Is(err, gorm.ErrRecordNotFound) {
			assignment = UserRoleAssignment{ID: 1, UserID: 1, Role: authority.RoleSuperAdmin,
				IsPrimary: true, IsActive: true, AssignedAt: time.Now(), AssignedBy: 1}
			return tx.Save(&assignment).Error
		}
		return err
	})
}
