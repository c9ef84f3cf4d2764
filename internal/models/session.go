package models

import "time"

// Session backs one successful login. Rows are immutable: refresh re-derives
// access tokens against the same id, logout deletes the row. Expiry lives in
// the token claims, not here, so a row stays refreshable until deleted.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
