package types

import "time"

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WorkspaceResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type MemberResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type BlinkResponse struct {
	ID           uint      `json:"id"`
	WorkspaceID  uint      `json:"workspace_id"`
	CreatorID    *uint     `json:"creator_id,omitempty"`
	Name         string    `json:"name"`
	TargetURL    string    `json:"target_url"`
	RedirectCode string    `json:"redirect_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
