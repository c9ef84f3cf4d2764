package models

import "gorm.io/gorm"

// Blink maps a redirect code to a target URL. RedirectCode is unique across
// all workspaces, not per workspace; the creator is nullable so blinks
// survive their author's account deletion.
type Blink struct {
	gorm.Model

	WorkspaceID  uint  `gorm:"not null;index"`
	CreatorID    *uint `gorm:"index"`
	Name         string `gorm:"not null"`
	TargetURL    string `gorm:"not null"`
	RedirectCode string `gorm:"uniqueIndex;size:16;not null"`

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator   *User     `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
