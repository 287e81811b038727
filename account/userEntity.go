package account

import (
	"time"

	"github.com/fundwit/go-commons/types"

	"recruitbase/authority"
)

type User struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	Name    string   `json:"name" gorm:"unique_index:uni_user_name"`
	Secret  string   `json:"-"`
	Enabled bool     `json:"enabled"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type UserInfo struct {
	ID      types.ID `json:"id"`
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
}

// UserRoleAssignment is the persisted form of authority.RoleAssignment.
// Removal along the audited path deactivates, it never deletes.
type UserRoleAssignment struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	UserID     types.ID       `json:"userId" gorm:"index:idx_user"`
	Role       authority.Role `json:"role"`
	IsPrimary  bool           `json:"isPrimary"`
	IsActive   bool           `json:"isActive"`
	AssignedAt time.Time      `json:"assignedAt" sql:"type:DATETIME(6) NOT NULL"`
	AssignedBy types.ID       `json:"assignedBy"`
	ExpiresAt  *time.Time     `json:"expiresAt,omitempty"`
}

func (a UserRoleAssignment) toAuthority() authority.RoleAssignment {
	return authority.RoleAssignment{
		Role:       a.Role,
		IsPrimary:  a.IsPrimary,
		IsActive:   a.IsActive,
		AssignedAt: a.AssignedAt,
		AssignedBy: a.AssignedBy,
		ExpiresAt:  a.ExpiresAt,
	}
}

type UserCreation struct {
	Name   string         `json:"name" binding:"required"`
	Secret string         `json:"secret" binding:"required,gte=6"`
	Role   authority.Role `json:"role"`
}

type BasicAuthUpdating struct {
	OriginalSecret string `json:"originalSecret"`
	NewSecret      string `json:"newSecret" binding:"required,gte=6"`
}

type RoleAssigning struct {
	Role      authority.Role `json:"role" binding:"required"`
	ExpiresAt *time.Time     `json:"expiresAt"`
}
