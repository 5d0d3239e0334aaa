package model

import (
	"encoding/json"
	"time"
)

// Module is a top-level curriculum unit (certification track or library course).
type Module struct {
	ID           string          `json:"id" gorm:"primaryKey"`
	Code         string          `json:"code" gorm:"unique;not null"` // BASICS, PCEP, PCAP, ...
	Name         string          `json:"name" gorm:"unique;not null"` // url slug
	Title        string          `json:"title" gorm:"not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Requirements json.RawMessage `json:"requirements" gorm:"type:text"` // JSON array of strings
	Category     string          `json:"category"`                      // CERTIFICATIONS, LIBRARIES
	Difficulty   string          `json:"difficulty"`                    // BEGINNER, INTERMEDIATE, ADVANCED
	IsBuilding   bool            `json:"is_building" gorm:"default:false"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Sprints []Sprint `json:"sprints,omitempty" gorm:"foreignKey:ModuleID"`
}

// Sprint is an ordered group of missions inside a module.
type Sprint struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	ModuleID    string    `json:"module_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"` // slug, unique per module
	Order       int       `json:"order" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Missions []Mission `json:"missions,omitempty" gorm:"foreignKey:SprintID"`
}

// Mission is a single unit of work: task, bugfix, quiz, article or skill test.
type Mission struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	ModuleID         string          `json:"module_id" gorm:"not null;index"`
	SprintID         *string         `json:"sprint_id" gorm:"index"`
	Order            int             `json:"order" gorm:"not null;default:0"`
	Type             string          `json:"type" gorm:"not null"` // TASK, BUGFIX, QUIZ, ARTICLE, SKILL_TEST
	Title            string          `json:"title" gorm:"not null"`
	ShortDesc        string          `json:"short_desc"`
	Description      string          `json:"description" gorm:"type:text"`
	Requirements     json.RawMessage `json:"requirements" gorm:"type:text"`
	Hints            json.RawMessage `json:"hints" gorm:"type:text"`
	Difficulty       string          `json:"difficulty"`
	EtaMinutes       int             `json:"eta_minutes" gorm:"default:0"`
	XP               int             `json:"xp" gorm:"default:0"`
	TimeLimitSeconds *int            `json:"time_limit_seconds"`
	PassPercent      *int            `json:"pass_percent"` // quiz only, defaults to 80 when nil
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Task          *Task          `json:"task,omitempty" gorm:"foreignKey:MissionID"`
	Article       *Article       `json:"article,omitempty" gorm:"foreignKey:MissionID"`
	QuizQuestions []QuizQuestion `json:"quiz_questions,omitempty" gorm:"foreignKey:MissionID"`
}

// Task holds the coding payload for TASK/BUGFIX missions.
type Task struct {
	MissionID   string    `json:"mission_id" gorm:"primaryKey"`
	Language    string    `json:"language" gorm:"default:python"`
	StarterCode string    `json:"starter_code" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	TestCases []TaskTestCase `json:"test_cases,omitempty" gorm:"foreignKey:TaskID"`
}

type TaskTestCase struct {
	ID             string `json:"id" gorm:"primaryKey"`
	TaskID         string `json:"task_id" gorm:"not null;index"`
	Order          int    `json:"order" gorm:"not null"`
	Input          string `json:"input" gorm:"type:text"`
	ExpectedOutput string `json:"expected_output" gorm:"type:text"`
	IsPublic       bool   `json:"is_public" gorm:"default:false"`
}

type QuizQuestion struct {
	ID        string `json:"id" gorm:"primaryKey"`
	MissionID string `json:"mission_id" gorm:"not null;index"`
	Order     int    `json:"order" gorm:"not null"`
	Title     string `json:"title"`
	Prompt    string `json:"prompt" gorm:"type:text"`

	Options []QuizOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type QuizOption struct {
	ID         string `json:"id" gorm:"primaryKey"`
	QuestionID string `json:"question_id" gorm:"not null;index"`
	Order      int    `json:"order" gorm:"not null"`
	Label      string `json:"label" gorm:"type:text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

// Article is the reading payload for ARTICLE missions.
type Article struct {
	MissionID string          `json:"mission_id" gorm:"primaryKey"`
	Tags      json.RawMessage `json:"tags" gorm:"type:text"`
	Blocks    json.RawMessage `json:"blocks" gorm:"type:text"` // JSON array of content blocks
	Summary   string          `json:"summary" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
