package dto

import "time"

// ==================== USER PROFILE DTOs ====================

type UnlockedModule struct {
	ID        string     `json:"id"`
	Code      string     `json:"code" example:"PCEP"`
	Title     string     `json:"title"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

type UserResponse struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	NickName        string           `json:"nickName"`
	FirstName       string           `json:"firstName,omitempty"`
	LastName        string           `json:"lastName,omitempty"`
	DisplayName     string           `json:"displayName,omitempty"`
	AvatarURL       string           `json:"avatarUrl,omitempty"`
	XPTotal         int              `json:"xpTotal"`
	XPMonth         int              `json:"xpMonth"`
	XPToday         int              `json:"xpToday"`
	StreakCurrent   int              `json:"streakCurrent"`
	StreakBest      int              `json:"streakBest"`
	GradeAvg        *float64         `json:"gradeAvg,omitempty"`
	UnlockedModules []UnlockedModule `json:"unlockedModules"`
	CreatedAt       time.Time        `json:"createdAt"`
}

type UpdateUserRequest struct {
	NickName    *string `json:"nickName,omitempty" validate:"omitempty,min=3,max=30,nickname" example:"py_learner"`
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,max=50"`
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,max=50"`
}

func (u UpdateUserRequest) Validate() error {
	return GetValidator().Struct(u)
}

// ==================== USER STATS DTOs ====================

type UserStatsResponse struct {
	StreakDays int    `json:"streakDays" example:"6"`
	XPGained   int    `json:"xpGained" example:"1340"`
	Rank       int    `json:"rank" example:"4"`
	LeagueName string `json:"leagueName" example:"Gold"`
	GradeAvg   string `json:"gradeAvg,omitempty" example:"B+"`
}

type AvatarUploadResponse struct {
	URL string `json:"url" example:"https://cdn.example.com/avatars/usr.png"`
}
