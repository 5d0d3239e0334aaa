package dto

import "encoding/json"

// ==================== MODULE DTOs ====================

// Module header statuses, in priority order.
const (
	ModuleStatusBuilding  = "building"
	ModuleStatusLocked    = "locked"
	ModuleStatusCompleted = "completed"
	ModuleStatusAvailable = "available"
)

// Sprint statuses.
const (
	SprintStatusLocked     = "locked"
	SprintStatusDone       = "done"
	SprintStatusInProgress = "inProgress"
	SprintStatusAvailable  = "available"
)

type ModuleSummary struct {
	ID              string `json:"id" example:"0198b2ac-71ab-7def-8000-2f4a1c9e6b10"`
	Code            string `json:"code" example:"PCEP"`
	Name            string `json:"name" example:"pcep"`
	Title           string `json:"title" example:"PCEP Certification"`
	Description     string `json:"description"`
	Category        string `json:"category" example:"CERTIFICATIONS"`
	Difficulty      string `json:"difficulty" example:"BEGINNER"`
	Status          string `json:"status" example:"available"`
	ProgressPercent int    `json:"progressPercent" example:"42"`
	SprintsDone     int    `json:"sprintsDone" example:"2"`
	SprintsTotal    int    `json:"sprintsTotal" example:"5"`
}

type ModuleHeader struct {
	ID           string          `json:"id"`
	Code         string          `json:"code" example:"PCEP"`
	Name         string          `json:"name" example:"pcep"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Requirements json.RawMessage `json:"requirements,omitempty"`
	Category     string          `json:"category"`
	Difficulty   string          `json:"difficulty"`
	Status       string          `json:"status" example:"available"`
	SprintsDone  int             `json:"sprintsDone"`
	SprintsTotal int             `json:"sprintsTotal"`
}

type ModuleDetailResponse struct {
	Module  ModuleHeader `json:"module"`
	Sprints []SprintView `json:"sprints"`
}

type UnlockResponse struct {
	OK bool `json:"ok" example:"true"`
}

// ==================== SPRINT DTOs ====================

type SprintView struct {
	ID            string `json:"id"`
	Name          string `json:"name" example:"variables"`
	Order         int    `json:"order" example:"0"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status" example:"inProgress"`
	Percent       int    `json:"percent" example:"75"`
	MissionsDone  int    `json:"missionsDone" example:"3"`
	MissionsTotal int    `json:"missionsTotal" example:"4"`
}

type SprintDetailResponse struct {
	Sprint   SprintView       `json:"sprint"`
	Missions []MissionSummary `json:"missions"`
}

// ==================== MISSION DTOs ====================

type MissionSummary struct {
	ID         string `json:"id"`
	Type       string `json:"type" example:"TASK"`
	Title      string `json:"title"`
	ShortDesc  string `json:"shortDesc,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	EtaMinutes int    `json:"etaMinutes" example:"15"`
	XP         int    `json:"xp" example:"50"`
	Status     string `json:"status" example:"TODO"`
	Route      string `json:"route" example:"/missions/task/0198b2ac-71ab-7def-8000-2f4a1c9e6b10"`
}
