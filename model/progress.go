package model

import (
	"encoding/json"
	"time"
)

// UserModuleAccess is the unlock grant for a module. Absence means the
// module is locked unless its code is on the public allow-list.
type UserModuleAccess struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_module"`
	ModuleID    string     `json:"module_id" gorm:"not null;uniqueIndex:idx_user_module"`
	HasAccess   bool       `json:"has_access" gorm:"default:false"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserMissionProgress is the per-user state of a mission. Absence is TODO.
type UserMissionProgress struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_mission"`
	MissionID         string     `json:"mission_id" gorm:"not null;uniqueIndex:idx_user_mission"`
	Status            string     `json:"status" gorm:"default:TODO"` // TODO, IN_PROGRESS, DONE
	StartedAt         *time.Time `json:"started_at"`
	LastOpenedAt      *time.Time `json:"last_opened_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	XPEarned          int        `json:"xp_earned" gorm:"default:0"`
	TimeSpentSeconds  int        `json:"time_spent_seconds" gorm:"default:0"`
	TestAttemptsCount int        `json:"test_attempts_count" gorm:"default:0"`
	Grade             string     `json:"grade"`
	UserCode          string     `json:"user_code" gorm:"type:text"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Mission Mission `json:"mission,omitempty" gorm:"foreignKey:MissionID"`
}

type TaskSubmission struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	UserID           string    `json:"user_id" gorm:"not null;index"`
	TaskID           string    `json:"task_id" gorm:"not null;index"`
	Code             string    `json:"code" gorm:"type:text"`
	Status           string    `json:"status"` // PASSED, FAILED
	PassedCount      int       `json:"passed_count"`
	TotalCount       int       `json:"total_count"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

type QuizAttempt struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	UserID           string          `json:"user_id" gorm:"not null;index"`
	QuizID           string          `json:"quiz_id" gorm:"not null;index"`
	Answers          json.RawMessage `json:"answers" gorm:"type:text"` // questionId -> optionId
	Score            int             `json:"score"`
	Total            int             `json:"total"`
	Percent          int             `json:"percent"`
	Passed           bool            `json:"passed"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	CreatedAt        time.Time       `json:"created_at"`
}

// TaskReview stores one AI review round. The daily quota counts rows here.
type TaskReview struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index:idx_review_user_day"`
	TaskID    string    `json:"task_id" gorm:"not null;index"`
	Code      string    `json:"code" gorm:"type:text"`
	Grade     string    `json:"grade"`
	Feedback  string    `json:"feedback" gorm:"type:text"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_review_user_day"`
}

type AnalyticsLog struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	Event            string          `json:"event" gorm:"not null;index"`
	UserID           string          `json:"user_id" gorm:"index"`
	SessionID        string          `json:"session_id"`
	MissionID        string          `json:"mission_id"`
	MissionType      string          `json:"mission_type"`
	XPAwarded        int             `json:"xp_awarded"`
	TimeSpentSeconds int             `json:"time_spent_seconds"`
	AttemptsCount    int             `json:"attempts_count"`
	StreakCurrent    int             `json:"streak_current"`
	Payload          json.RawMessage `json:"payload" gorm:"type:text"`
	CreatedAt        time.Time       `json:"created_at"`
}
