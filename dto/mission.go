package dto

import "encoding/json"

// ==================== TASK DTOs ====================

type PublicTestCase struct {
	ID             string `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

type ReviewQuota struct {
	Remaining int `json:"remaining" example:"2"`
	Limit     int `json:"limit" example:"3"`
}

type TaskPayloadResponse struct {
	ID              string           `json:"id"`
	Type            string           `json:"type" example:"TASK"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Requirements    json.RawMessage  `json:"requirements,omitempty"`
	Hints           json.RawMessage  `json:"hints,omitempty"`
	Difficulty      string           `json:"difficulty"`
	EtaMinutes      int              `json:"etaMinutes"`
	XP              int              `json:"xp"`
	Language        string           `json:"language" example:"python"`
	StarterCode     string           `json:"starterCode"`
	UserCode        string           `json:"userCode,omitempty"`
	Status          string           `json:"status" example:"IN_PROGRESS"`
	PublicTests     []PublicTestCase `json:"publicTests"`
	TotalTestsCount int              `json:"totalTestsCount" example:"12"`
	Review          ReviewQuota      `json:"review"`
}

type SaveTaskRequest struct {
	Code             string `json:"code"`
	TimeSpentSeconds int    `json:"timeSpentSeconds,omitempty"`
}

type SaveTaskResponse struct {
	Status       string `json:"status" example:"IN_PROGRESS"`
	LastOpenedAt string `json:"lastOpenedAt"`
}

// ==================== EXECUTE DTOs ====================

const (
	ExecuteModeRunCode      = "runCode"
	ExecuteModeFullTest     = "fullTest"
	ExecuteModeCompleteTask = "completeTask"
)

type ExecuteRequest struct {
	Mode             string `json:"mode" validate:"required,oneof=runCode fullTest completeTask" example:"runCode"`
	Code             string `json:"code" validate:"required"`
	Stdin            string `json:"stdin,omitempty"`
	TimeSpentSeconds int    `json:"timeSpentSeconds,omitempty"`
}

func (e ExecuteRequest) Validate() error {
	return GetValidator().Struct(e)
}

type TestResult struct {
	ID     string `json:"id"`
	Passed bool   `json:"passed"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

type ExecuteResponse struct {
	Mode        string       `json:"mode"`
	Stdout      string       `json:"stdout,omitempty"`
	Stderr      string       `json:"stderr,omitempty"`
	Results     []TestResult `json:"results,omitempty"`
	PassedCount int          `json:"passedCount,omitempty"`
	TotalCount  int          `json:"totalCount,omitempty"`
	AllPassed   bool         `json:"allPassed,omitempty"`
	XPAwarded   int          `json:"xpAwarded,omitempty"`
	Status      string       `json:"status,omitempty"`
}

// ==================== REVIEW DTOs ====================

type ReviewRequest struct {
	Code string `json:"code" validate:"required"`
}

func (r ReviewRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ReviewResponse struct {
	Grade     string `json:"grade" example:"B+"`
	Feedback  string `json:"feedback"`
	Remaining int    `json:"remaining" example:"1"`
	Limit     int    `json:"limit" example:"3"`
}

// ==================== QUIZ DTOs ====================

type QuizOptionView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type QuizQuestionView struct {
	ID      string           `json:"id"`
	Title   string           `json:"title,omitempty"`
	Prompt  string           `json:"prompt"`
	Options []QuizOptionView `json:"options"`
}

type QuizPayloadResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	EtaMinutes  int                `json:"etaMinutes"`
	XP          int                `json:"xp"`
	PassPercent int                `json:"passPercent" example:"80"`
	Status      string             `json:"status"`
	Questions   []QuizQuestionView `json:"questions"`
}

type QuizSubmitRequest struct {
	Answers          map[string]string `json:"answers" validate:"required"` // questionId -> optionId
	TimeSpentSeconds int               `json:"timeSpentSeconds,omitempty"`
}

func (q QuizSubmitRequest) Validate() error {
	return GetValidator().Struct(q)
}

type QuizSubmitResponse struct {
	Score     int    `json:"score" example:"8"`
	Total     int    `json:"total" example:"10"`
	Percent   int    `json:"percent" example:"80"`
	Passed    bool   `json:"passed" example:"true"`
	XPAwarded int    `json:"xpAwarded" example:"50"`
	Status    string `json:"status" example:"DONE"`
}

// ==================== ARTICLE DTOs ====================

type ArticleResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary,omitempty"`
	Tags       json.RawMessage `json:"tags,omitempty"`
	Blocks     json.RawMessage `json:"blocks"`
	EtaMinutes int             `json:"etaMinutes"`
	XP         int             `json:"xp"`
	Status     string          `json:"status"`
}

type ArticleCompleteResponse struct {
	Status    string `json:"status" example:"DONE"`
	XPAwarded int    `json:"xpAwarded" example:"25"`
}
