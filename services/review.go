package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"
)

// ReviewService sends task code to an OpenAI-compatible chat endpoint and
// enforces the per-day review quota.
type ReviewService struct {
	context.DefaultService

	sqlSvc *PostgresService

	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

const REVIEW_SVC = "review_svc"

const reviewDailyLimit = 3

var allowedGrades = []string{"A", "A-", "B+", "B", "C+", "C", "D", "E"}

func (svc ReviewService) Id() string {
	return REVIEW_SVC
}

func (svc *ReviewService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("OPENAI_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "https://api.openai.com/v1"
	}
	svc.apiKey = os.Getenv("OPENAI_API_KEY")
	svc.model = os.Getenv("OPENAI_REVIEW_MODEL")
	if svc.model == "" {
		svc.model = "gpt-4o-mini"
	}
	svc.client = &http.Client{Timeout: 60 * time.Second}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ReviewService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== QUOTA ====================

// localMidnight is the day boundary for quotas and streaks: server-local
// calendar days, not rolling 24h windows.
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func reviewsRemaining(used int64) int {
	remaining := reviewDailyLimit - int(used)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (svc *ReviewService) ReviewsRemaining(userID string) (int, error) {
	used, err := svc.sqlSvc.CountTaskReviewsSince(userID, localMidnight(time.Now()))
	if err != nil {
		return 0, err
	}
	return reviewsRemaining(used), nil
}

// ==================== GRADES ====================

// gradePoints and gradeLabel are inverses on the allow-list.
func gradePoints(grade string) float64 {
	switch grade {
	case "A":
		return 5.0
	case "A-":
		return 4.5
	case "B+":
		return 4.0
	case "B":
		return 3.5
	case "C+":
		return 3.0
	case "C":
		return 2.5
	case "D":
		return 2.0
	default:
		return 1.0
	}
}

func gradeLabel(avg *float64) string {
	if avg == nil {
		return ""
	}
	switch {
	case *avg >= 4.75:
		return "A"
	case *avg >= 4.25:
		return "A-"
	case *avg >= 4.0:
		return "B+"
	case *avg >= 3.5:
		return "B"
	case *avg >= 3.0:
		return "C+"
	case *avg >= 2.5:
		return "C"
	case *avg >= 2.0:
		return "D"
	default:
		return "E"
	}
}

func isAllowedGrade(grade string) bool {
	for _, g := range allowedGrades {
		if g == grade {
			return true
		}
	}
	return false
}

// ==================== REVIEW FLOW ====================

// reviewableTask gates reviews to plain tasks with a task payload; bugfix
// and skill-test code paths are graded by tests instead.
func reviewableTask(mission *model.Mission) error {
	if mission.Type != shared.MissionTypeTask {
		return shared.NewForbiddenError(nil, "Reviews are only available for tasks")
	}
	if mission.Task == nil {
		return shared.NewNotFoundError(nil, "Not Found")
	}
	return nil
}

func (svc *ReviewService) ReviewTask(userID, missionID string, req dto.ReviewRequest) (*dto.ReviewResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}
	if err := reviewableTask(mission); err != nil {
		return nil, err
	}

	used, err := svc.sqlSvc.CountTaskReviewsSince(userID, localMidnight(time.Now()))
	if err != nil {
		return nil, err
	}
	if used >= reviewDailyLimit {
		return nil, shared.NewTooManyRequestsError("Daily review limit reached", map[string]interface{}{
			"remaining": 0,
			"limit":     reviewDailyLimit,
		})
	}

	grade, feedback, err := svc.requestReview(mission, req.Code)
	if err != nil {
		return nil, shared.NewBadGatewayError(err, "Review service unavailable")
	}

	if err := svc.sqlSvc.CreateTaskReview(&model.TaskReview{
		UserID:   userID,
		TaskID:   missionID,
		Code:     req.Code,
		Grade:    grade,
		Feedback: feedback,
		Model:    svc.model,
	}); err != nil {
		return nil, err
	}

	if err := svc.recomputeGradeAvg(userID); err != nil {
		log.WithField("user_id", userID).Warnf("Failed to recompute grade average: %v", err)
	}

	if grade != "" {
		progress, err := svc.sqlSvc.GetMissionProgress(userID, missionID)
		if err == nil {
			progress.Grade = grade
			if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
				log.Warnf("Failed to store mission grade: %v", err)
			}
		}
	}

	return &dto.ReviewResponse{
		Grade:     grade,
		Feedback:  feedback,
		Remaining: reviewsRemaining(used + 1),
		Limit:     reviewDailyLimit,
	}, nil
}

// latestGrades keeps the newest graded review per task. Input must be
// ordered oldest first; later rounds overwrite earlier ones.
func latestGrades(reviews []model.TaskReview) []string {
	byTask := map[string]string{}
	order := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if r.Grade == "" {
			continue
		}
		if _, seen := byTask[r.TaskID]; !seen {
			order = append(order, r.TaskID)
		}
		byTask[r.TaskID] = r.Grade
	}
	grades := make([]string, 0, len(order))
	for _, taskID := range order {
		grades = append(grades, byTask[taskID])
	}
	return grades
}

// recomputeGradeAvg averages one grade per task, the latest, so a retried
// review replaces its predecessor instead of diluting the mean.
func (svc *ReviewService) recomputeGradeAvg(userID string) error {
	reviews, err := svc.sqlSvc.ListUserTaskReviews(userID)
	if err != nil {
		return err
	}
	grades := latestGrades(reviews)
	if len(grades) == 0 {
		return nil
	}

	sum := 0.0
	for _, g := range grades {
		sum += gradePoints(g)
	}
	avg := sum / float64(len(grades))

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return err
	}
	user.GradeAvg = &avg
	return svc.sqlSvc.UpdateUser(user)
}

// ==================== MODEL CALL ====================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type reviewVerdict struct {
	Grade    string `json:"grade"`
	Feedback string `json:"feedback"`
}

const reviewSystemPrompt = "You are a strict but encouraging Python code reviewer. " +
	"Grade the submitted solution against the mission description. " +
	"Respond with a JSON object {\"grade\": \"...\", \"feedback\": \"...\"} " +
	"where grade is one of A, A-, B+, B, C+, C, D, E."

func (svc *ReviewService) requestReview(mission *model.Mission, code string) (string, string, error) {
	payload := chatRequest{
		Model: svc.model,
		Messages: []chatMessage{
			{Role: "system", Content: reviewSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Mission: %s\n\n%s\n\nSubmission:\n```python\n%s\n```",
				mission.Title, mission.Description, code)},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, svc.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+svc.apiKey)

	resp, err := svc.client.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("review model returned %d: %s", resp.StatusCode, string(data))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", "", err
	}
	if len(chat.Choices) == 0 {
		return "", "", fmt.Errorf("review model returned no choices")
	}

	var verdict reviewVerdict
	content := chat.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return "", "", fmt.Errorf("review model returned malformed verdict: %w", err)
	}

	verdict.Grade = strings.TrimSpace(verdict.Grade)
	if !isAllowedGrade(verdict.Grade) {
		// Off-list grades are dropped, the feedback still counts.
		verdict.Grade = ""
	}

	return verdict.Grade, verdict.Feedback, nil
}
