package services

import (
	"encoding/json"
	"math"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"
)

type MissionService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const MISSION_SVC = "mission_svc"

const (
	defaultQuizPassPercent = 80
	publicTestsCap         = 3
)

func (svc MissionService) Id() string {
	return MISSION_SVC
}

func (svc *MissionService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== PURE HELPERS ====================

// applySave folds a draft save into a progress row. DONE is sticky: a save
// on a completed mission only refreshes the draft and the open stamp.
func applySave(progress *model.UserMissionProgress, code string, timeSpent int, now time.Time) {
	progress.UserCode = code
	progress.LastOpenedAt = &now

	if progress.Status == shared.StatusDone {
		return
	}

	progress.Status = shared.StatusInProgress
	if progress.StartedAt == nil {
		progress.StartedAt = &now
	}
	if timeSpent > 0 {
		progress.TimeSpentSeconds += timeSpent
	}
}

// publicTests exposes at most the first three public cases, in order.
func publicTests(cases []model.TaskTestCase) []dto.PublicTestCase {
	out := make([]dto.PublicTestCase, 0, publicTestsCap)
	for _, tc := range cases {
		if !tc.IsPublic {
			continue
		}
		out = append(out, dto.PublicTestCase{
			ID:             tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
		if len(out) == publicTestsCap {
			break
		}
	}
	return out
}

func gradeQuiz(questions []model.QuizQuestion, answers map[string]string) (score, total int) {
	total = len(questions)
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID == selected && opt.IsCorrect {
				score++
				break
			}
		}
	}
	return score, total
}

func quizPassPercent(mission *model.Mission) int {
	if mission.PassPercent != nil {
		return *mission.PassPercent
	}
	return defaultQuizPassPercent
}

func percentOf(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// ==================== SHARED MUTATIONS ====================

// awardXP credits all three counters at once. The daily counter rolls over
// lazily: the first award of a new local day starts from zero.
func awardXP(sqlSvc *PostgresService, userID string, amount int, source string) error {
	user, err := sqlSvc.GetUser(userID)
	if err != nil {
		return err
	}

	now := time.Now()
	if user.XPTodayAt == nil || !localMidnight(*user.XPTodayAt).Equal(localMidnight(now)) {
		user.XPToday = 0
	}
	user.XPTodayAt = &now

	user.XPTotal += amount
	user.XPMonth += amount
	user.XPToday += amount
	if err := sqlSvc.UpdateUser(user); err != nil {
		return err
	}

	xpAwardedTotal.WithLabelValues(source).Add(float64(amount))
	return nil
}

// logMissionCompleted is best effort; analytics never fails the request.
func logMissionCompleted(sqlSvc *PostgresService, userID string, mission *model.Mission, xpAwarded, timeSpent, attempts int) {
	err := sqlSvc.CreateAnalyticsLog(&model.AnalyticsLog{
		Event:            "mission_completed",
		UserID:           userID,
		MissionID:        mission.ID,
		MissionType:      mission.Type,
		XPAwarded:        xpAwarded,
		TimeSpentSeconds: timeSpent,
		AttemptsCount:    attempts,
	})
	if err != nil {
		log.WithField("mission_id", mission.ID).Warnf("Failed to write analytics log: %v", err)
	}
}

func (svc *MissionService) getProgressOrNew(userID, missionID string) (*model.UserMissionProgress, error) {
	progress, err := svc.sqlSvc.GetMissionProgress(userID, missionID)
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == 404 {
			return &model.UserMissionProgress{
				UserID:    userID,
				MissionID: missionID,
				Status:    shared.StatusTodo,
			}, nil
		}
		return nil, err
	}
	return progress, nil
}

// requireMissionAccess loads the mission and enforces the module access rule.
func requireMissionAccess(sqlSvc *PostgresService, userID, missionID string) (*model.Mission, error) {
	mission, err := sqlSvc.GetMission(missionID)
	if err != nil {
		return nil, err
	}

	module, err := sqlSvc.GetModule(mission.ModuleID)
	if err != nil {
		return nil, err
	}

	var grant *model.UserModuleAccess
	g, err := sqlSvc.GetModuleAccess(userID, mission.ModuleID)
	if err == nil {
		grant = g
	} else if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != 404 {
		return nil, err
	}

	if !canAccessModule(module, grant) {
		return nil, shared.NewForbiddenError(nil, "Module is locked")
	}

	return mission, nil
}

// ==================== TASK ====================

func (svc *MissionService) GetTask(userID, missionID string, reviewsRemaining int) (*dto.TaskPayloadResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != shared.MissionTypeTask && mission.Type != shared.MissionTypeBugfix &&
		mission.Type != shared.MissionTypeSkillTest {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	if mission.Task == nil {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	totalTests := len(mission.Task.TestCases)

	return &dto.TaskPayloadResponse{
		ID:              mission.ID,
		Type:            mission.Type,
		Title:           mission.Title,
		Description:     mission.Description,
		Requirements:    mission.Requirements,
		Hints:           mission.Hints,
		Difficulty:      mission.Difficulty,
		EtaMinutes:      mission.EtaMinutes,
		XP:              mission.XP,
		Language:        mission.Task.Language,
		StarterCode:     mission.Task.StarterCode,
		UserCode:        progress.UserCode,
		Status:          progress.Status,
		PublicTests:     publicTests(mission.Task.TestCases),
		TotalTestsCount: totalTests,
		Review: dto.ReviewQuota{
			Remaining: reviewsRemaining,
			Limit:     reviewDailyLimit,
		},
	}, nil
}

func (svc *MissionService) SaveTask(userID, missionID string, req dto.SaveTaskRequest) (*dto.SaveTaskResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Task == nil {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	applySave(progress, req.Code, req.TimeSpentSeconds, now)

	if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
		return nil, err
	}

	return &dto.SaveTaskResponse{
		Status:       progress.Status,
		LastOpenedAt: now.Format(time.RFC3339),
	}, nil
}

// ==================== QUIZ ====================

func (svc *MissionService) GetQuiz(userID, missionID string) (*dto.QuizPayloadResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != shared.MissionTypeQuiz {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	// Opening a quiz is a first touch.
	now := time.Now()
	if progress.Status != shared.StatusDone {
		progress.Status = shared.StatusInProgress
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
	}
	progress.LastOpenedAt = &now
	if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
		return nil, err
	}

	questions := make([]dto.QuizQuestionView, 0, len(mission.QuizQuestions))
	for _, q := range mission.QuizQuestions {
		options := make([]dto.QuizOptionView, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, dto.QuizOptionView{ID: opt.ID, Label: opt.Label})
		}
		questions = append(questions, dto.QuizQuestionView{
			ID:      q.ID,
			Title:   q.Title,
			Prompt:  q.Prompt,
			Options: options,
		})
	}

	return &dto.QuizPayloadResponse{
		ID:          mission.ID,
		Title:       mission.Title,
		Description: mission.Description,
		EtaMinutes:  mission.EtaMinutes,
		XP:          mission.XP,
		PassPercent: quizPassPercent(mission),
		Status:      progress.Status,
		Questions:   questions,
	}, nil
}

func (svc *MissionService) SubmitQuiz(userID, missionID string, req dto.QuizSubmitRequest) (*dto.QuizSubmitResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != shared.MissionTypeQuiz {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	score, total := gradeQuiz(mission.QuizQuestions, req.Answers)
	percent := percentOf(score, total)
	passed := percent >= quizPassPercent(mission)

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	answersJSON, _ := json.Marshal(req.Answers)
	if err := svc.sqlSvc.CreateQuizAttempt(&model.QuizAttempt{
		UserID:           userID,
		QuizID:           missionID,
		Answers:          answersJSON,
		Score:            score,
		Total:            total,
		Percent:          percent,
		Passed:           passed,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}); err != nil {
		return nil, err
	}

	xpAwarded := 0
	now := time.Now()
	if passed && progress.Status != shared.StatusDone {
		// XP is granted once, on the first pass only.
		progress.Status = shared.StatusDone
		progress.CompletedAt = &now
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
		if req.TimeSpentSeconds > 0 {
			progress.TimeSpentSeconds += req.TimeSpentSeconds
		}
		progress.XPEarned = mission.XP
		xpAwarded = mission.XP

		if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
			return nil, err
		}
		if err := awardXP(svc.sqlSvc, userID, xpAwarded, "quiz"); err != nil {
			return nil, err
		}
		logMissionCompleted(svc.sqlSvc, userID, mission, xpAwarded, progress.TimeSpentSeconds, 0)
	}

	return &dto.QuizSubmitResponse{
		Score:     score,
		Total:     total,
		Percent:   percent,
		Passed:    passed,
		XPAwarded: xpAwarded,
		Status:    progress.Status,
	}, nil
}

// ==================== ARTICLE ====================

func (svc *MissionService) GetArticle(userID, missionID string) (*dto.ArticleResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != shared.MissionTypeArticle || mission.Article == nil {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if progress.Status != shared.StatusDone {
		progress.Status = shared.StatusInProgress
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
	}
	progress.LastOpenedAt = &now
	if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
		return nil, err
	}

	return &dto.ArticleResponse{
		ID:         mission.ID,
		Title:      mission.Title,
		Summary:    mission.Article.Summary,
		Tags:       mission.Article.Tags,
		Blocks:     mission.Article.Blocks,
		EtaMinutes: mission.EtaMinutes,
		XP:         mission.XP,
		Status:     progress.Status,
	}, nil
}

func (svc *MissionService) CompleteArticle(userID, missionID string) (*dto.ArticleCompleteResponse, error) {
	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}

	if mission.Type != shared.MissionTypeArticle {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	progress, err := svc.getProgressOrNew(userID, missionID)
	if err != nil {
		return nil, err
	}

	xpAwarded := 0
	if progress.Status != shared.StatusDone {
		now := time.Now()
		progress.Status = shared.StatusDone
		progress.CompletedAt = &now
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
		progress.XPEarned = mission.XP
		xpAwarded = mission.XP

		if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
			return nil, err
		}
		if err := awardXP(svc.sqlSvc, userID, xpAwarded, "article"); err != nil {
			return nil, err
		}
		logMissionCompleted(svc.sqlSvc, userID, mission, xpAwarded, progress.TimeSpentSeconds, 0)
	}

	return &dto.ArticleCompleteResponse{
		Status:    progress.Status,
		XPAwarded: xpAwarded,
	}, nil
}
