package models

import "gorm.io/gorm"

// Role is a small totally ordered set. Comparison is by rank, so adding a
// role between the existing two only means picking a rank for it.
type Role string

const (
	RoleDefault       Role = "default"
	RoleAdministrator Role = "administrator"
)

var roleRank = map[Role]int{
	RoleDefault:       0,
	RoleAdministrator: 1,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants at least the privileges of min. Unknown
// roles rank below everything.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	mr, ok := roleRank[min]
	if !ok {
		return false
	}
	return rr >= mr
}

type WorkspaceMember struct {
	gorm.Model

	WorkspaceID uint `gorm:"not null;uniqueIndex:idx_workspace_user"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_workspace_user"`
	Role        Role `gorm:"not null"`

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
