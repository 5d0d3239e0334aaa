package model

import "time"

type User struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	Email              string     `json:"email" gorm:"unique;not null"`
	NickName           string     `json:"nick_name" gorm:"unique;not null"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	DisplayName        string     `json:"display_name"`
	PasswordHash       string     `json:"-" gorm:"not null"`
	AvatarURL          string     `json:"avatar_url"`
	XPTotal            int        `json:"xp_total" gorm:"default:0"`
	XPMonth            int        `json:"xp_month" gorm:"default:0"`
	XPToday            int        `json:"xp_today" gorm:"default:0"`
	XPTodayAt          *time.Time `json:"xp_today_at"`
	StreakCurrent      int        `json:"streak_current" gorm:"default:0"`
	StreakBest         int        `json:"streak_best" gorm:"default:0"`
	StreakUpdatedAt    *time.Time `json:"streak_updated_at"`
	GradeAvg           *float64   `json:"grade_avg"`
	PlanBonusClaimedAt *time.Time `json:"plan_bonus_claimed_at"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
