package models

import "gorm.io/gorm"

type Workspace struct {
	gorm.Model

	Name string `gorm:"not null"`

	// Relationships
	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Blinks  []Blink           `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
