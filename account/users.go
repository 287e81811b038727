package account

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"

	"recruitbase/authority"
	"recruitbase/bizerror"
	"recruitbase/misc"
	"recruitbase/persistence"
	"recruitbase/session"
)

var (
	userIdWorker       = sonyflake.NewSonyflake(sonyflake.Settings{})
	assignmentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateUserFunc            = CreateUser
	QueryUsersFunc            = QueryUsers
	UpdateBasicAuthSecretFunc = UpdateBasicAuthSecret
)

func HashSha256(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func CreateUser(c *UserCreation, sec *session.Session) (*UserInfo, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermUsersManage) {
		return nil, bizerror.ErrForbidden
	}
	role := c.Role
	if role == "" {
		role = authority.RoleViewer
	}
	if !authority.CanAssignRole(sec.Identity(), role) {
		return nil, bizerror.ErrForbidden
	}

	user := User{ID: misc.NextId(userIdWorker), Name: c.Name, Secret: HashSha256(c.Secret),
		Enabled: true, CreateTime: types.CurrentTimestamp()}

	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		assignment := UserRoleAssignment{
			ID: misc.NextId(assignmentIdWorker), UserID: user.ID, Role: role,
			IsPrimary: true, IsActive: true, AssignedAt: time.Now(), AssignedBy: sec.Principal.ID,
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Enabled: user.Enabled}, nil
}

func QueryUsers(sec *session.Session) ([]UserInfo, error) {
	if !authority.HasPermission(sec.Identity(), authority.PermUsersRead) {
		return nil, bizerror.ErrForbidden
	}
	users := []UserInfo{}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	if err := db.Model(&User{}).Scan(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateBasicAuthSecret(u *BasicAuthUpdating, sec *session.Session) error {
	if sec == nil || sec.Principal == nil {
		return bizerror.ErrUnauthenticated
	}
	db := persistence.ActiveDataSourceManager.GormDB(context.Background())
	user := User{}
	if err := db.Where(&User{ID: sec.Principal.ID, Secret: HashSha256(u.OriginalSecret)}).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return bizerror.ErrInvalidPassword
		}
		return err
	}
	return db.Model(&User{}).Where(&User{ID: user.ID}).
		Update(&User{Secret: HashSha256(u.NewSecret)}).Error
}

// LoadPrincipal builds the canonical authorization subject of a user from
// its record and role assignments. It is the only adapter between the
// persisted shape and the authority package.
func LoadPrincipal(db *gorm.DB, userID types.ID) (*authority.Principal, error) {
	user := User{}
	if err := db.Where(&User{ID: userID}).First(&user).Error; err != nil {
		return nil, err
	}

	assignments := []UserRoleAssignment{}
	if err := db.Where(&UserRoleAssignment{UserID: userID}).Order("assigned_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	principal := &authority.Principal{ID: user.ID, Name: user.Name, Active: user.Enabled}
	for _, a := range assignments {
		principal.Assignments = append(principal.Assignments, a.toAuthority())
	}
	return principal, nil
}
