package dto

// ==================== DASHBOARD DTOs ====================

type PlanItem struct {
	Type    string `json:"type" example:"TASK"`
	Done    int    `json:"done" example:"2"`
	Total   int    `json:"total" example:"4"`
	Percent int    `json:"percent" example:"50"`
	OK      bool   `json:"ok" example:"false"`
}

type MissionRef struct {
	ID    string `json:"id"`
	Type  string `json:"type" example:"TASK"`
	Title string `json:"title"`
	Route string `json:"route" example:"/missions/task/0198b2ac-71ab-7def-8000-2f4a1c9e6b10"`
}

type Spotlight struct {
	ModuleID     string      `json:"moduleId"`
	ModuleCode   string      `json:"moduleCode" example:"BASICS"`
	ModuleTitle  string      `json:"moduleTitle"`
	SprintID     string      `json:"sprintId"`
	SprintTitle  string      `json:"sprintTitle"`
	Percent      int         `json:"percent" example:"64"`
	Plan         []PlanItem  `json:"plan"`
	PlanComplete bool        `json:"planComplete" example:"false"`
	NextMission  *MissionRef `json:"nextMission,omitempty"`
}

type LastResult struct {
	TodayXP      int    `json:"todayXp" example:"150"`
	YesterdayXP  int    `json:"yesterdayXp" example:"90"`
	Grade        string `json:"grade" example:"B+"`
	SpeedPercent int    `json:"speedPercent" example:"100"`
}

type DashboardResponse struct {
	Spotlight  *Spotlight `json:"spotlight,omitempty"`
	LastResult LastResult `json:"lastResult"`
}

type PlanClaimResponse struct {
	BonusXP int `json:"bonusXp" example:"120"`
	XPToday int `json:"xpToday" example:"270"`
	XPMonth int `json:"xpMonth" example:"1340"`
}
