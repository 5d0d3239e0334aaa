package services

import (
	"math"
	"sort"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"
)

// DashboardService assembles the home screen: a spotlight sprint with a
// daily plan, and the last-result strip. The spotlight percent uses its own
// weighted formula and intentionally disagrees with the module-detail
// percent for mixed sprints.
type DashboardService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const DASHBOARD_SVC = "dashboard_svc"

const (
	planBonusXP     = 120
	planOKThreshold = 80
)

func (svc DashboardService) Id() string {
	return DASHBOARD_SVC
}

func (svc *DashboardService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== PURE AGGREGATION ====================

// Skill tests stay out of the dashboard buckets; they only count toward
// the plain sprint percent.
func isTaskType(missionType string) bool {
	return missionType == shared.MissionTypeTask ||
		missionType == shared.MissionTypeBugfix
}

// weightedSprintPercent is the spotlight formula: 70% coding tasks, 15%
// articles, 15% quizzes. Empty buckets earn full credit so a sprint without
// quizzes can still reach 100.
func weightedSprintPercent(missions []model.Mission, progress map[string]string) int {
	taskDone, taskTotal := 0, 0
	articleDone, articleTotal := 0, 0
	quizDone, quizTotal := 0, 0

	for _, m := range missions {
		done := progressStatus(progress, m.ID) == shared.StatusDone
		switch {
		case isTaskType(m.Type):
			taskTotal++
			if done {
				taskDone++
			}
		case m.Type == shared.MissionTypeArticle:
			articleTotal++
			if done {
				articleDone++
			}
		case m.Type == shared.MissionTypeQuiz:
			quizTotal++
			if done {
				quizDone++
			}
		}
	}

	ratio := func(done, total int) float64 {
		if total == 0 {
			return 1
		}
		return float64(done) / float64(total)
	}

	// Article credit is all or nothing: the share is earned only once every
	// article in the sprint is read.
	articleRatio := 1.0
	if articleTotal > 0 && articleDone < articleTotal {
		articleRatio = 0
	}

	return int(math.Round((0.70*ratio(taskDone, taskTotal) + 0.15*articleRatio + 0.15*ratio(quizDone, quizTotal)) * 100))
}

// buildPlan derives the daily plan for a sprint. A mission type is in scope
// only while the sprint still has unfinished missions of that type, and
// credit is binary: one done mission satisfies its bucket for the day. An
// empty scope is a complete plan.
func buildPlan(missions []model.Mission, progress map[string]string) ([]dto.PlanItem, bool) {
	type bucket struct {
		done, total int
	}
	buckets := map[string]*bucket{}

	for _, m := range missions {
		key := m.Type
		if isTaskType(m.Type) {
			key = shared.MissionTypeTask
		}
		if key != shared.MissionTypeTask && key != shared.MissionTypeArticle && key != shared.MissionTypeQuiz {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.total++
		if progressStatus(progress, m.ID) == shared.StatusDone {
			b.done++
		}
	}

	items := make([]dto.PlanItem, 0, len(buckets))
	complete := true
	for _, key := range []string{shared.MissionTypeTask, shared.MissionTypeArticle, shared.MissionTypeQuiz} {
		b, ok := buckets[key]
		if !ok || b.done == b.total {
			// Nothing left of this type: out of scope.
			continue
		}

		percent := 0
		if b.done > 0 {
			percent = 100
		}
		ok2 := percent >= planOKThreshold
		if !ok2 {
			complete = false
		}
		items = append(items, dto.PlanItem{
			Type:    key,
			Done:    b.done,
			Total:   b.total,
			Percent: percent,
			OK:      ok2,
		})
	}

	return items, complete
}

// speedPercent bands the last timed completion against its estimate.
func speedPercent(timeSpentSeconds, etaMinutes int) int {
	if timeSpentSeconds <= 0 || etaMinutes <= 0 {
		return 100
	}
	ratio := float64(timeSpentSeconds) / float64(etaMinutes*60)
	switch {
	case ratio < 0.83:
		return 120
	case ratio <= 1.17:
		return 100
	case ratio <= 2.0:
		return 80
	default:
		return 50
	}
}

func pickNextMission(missions []model.Mission, progress map[string]string) *dto.MissionRef {
	for _, m := range missions {
		if progressStatus(progress, m.ID) != shared.StatusDone {
			return &dto.MissionRef{
				ID:    m.ID,
				Type:  m.Type,
				Title: m.Title,
				Route: missionRoute(m.Type, m.ID),
			}
		}
	}
	return nil
}

// ==================== SPOTLIGHT ====================

type spotlightTarget struct {
	module *model.Module
	sprint *model.Sprint
}

// pickSpotlight chooses the module and sprint the dashboard highlights.
// Preference order: the freshest in-progress certification work, then any
// recent work, then the newest unlock, then the first public module.
func pickSpotlight(modules []model.Module, grants map[string]*model.UserModuleAccess,
	rows []model.UserMissionProgress, progress map[string]string) *spotlightTarget {

	moduleByID := make(map[string]*model.Module, len(modules))
	missionHome := make(map[string]struct {
		module *model.Module
		sprint *model.Sprint
	})
	for i := range modules {
		moduleByID[modules[i].ID] = &modules[i]
		for j := range modules[i].Sprints {
			for _, m := range modules[i].Sprints[j].Missions {
				missionHome[m.ID] = struct {
					module *model.Module
					sprint *model.Sprint
				}{&modules[i], &modules[i].Sprints[j]}
			}
		}
	}

	accessible := func(module *model.Module) bool {
		return canAccessModule(module, grants[module.ID])
	}

	sorted := make([]model.UserMissionProgress, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})

	// Freshest in-progress certification work first.
	for _, row := range sorted {
		if row.Status != shared.StatusInProgress {
			continue
		}
		home, ok := missionHome[row.MissionID]
		if !ok || home.module.Category != shared.CategoryCertifications || !accessible(home.module) {
			continue
		}
		return resolveSprint(home.module, home.sprint, progress)
	}

	// Then any recent work in an accessible module.
	for _, row := range sorted {
		home, ok := missionHome[row.MissionID]
		if !ok || !accessible(home.module) {
			continue
		}
		return resolveSprint(home.module, home.sprint, progress)
	}

	// Then the newest unlock.
	var newest *model.UserModuleAccess
	for _, grant := range grants {
		if !grant.HasAccess || grant.StartedAt == nil {
			continue
		}
		module := moduleByID[grant.ModuleID]
		if module == nil || !accessible(module) {
			continue
		}
		if newest == nil || grant.StartedAt.After(*newest.StartedAt) {
			newest = grant
		}
	}
	if newest != nil {
		return resolveSprint(moduleByID[newest.ModuleID], nil, progress)
	}

	// Finally the first public module.
	for i := range modules {
		if shared.IsPublicModuleCode(modules[i].Code) && !modules[i].IsBuilding {
			return resolveSprint(&modules[i], nil, progress)
		}
	}

	return nil
}

// resolveSprint keeps the referenced sprint, otherwise the first incomplete
// one, otherwise the last.
func resolveSprint(module *model.Module, preferred *model.Sprint, progress map[string]string) *spotlightTarget {
	if module == nil || len(module.Sprints) == 0 {
		return nil
	}
	if preferred != nil {
		return &spotlightTarget{module: module, sprint: preferred}
	}
	for j := range module.Sprints {
		done := countDone(progress, module.Sprints[j].Missions)
		if sprintPercent(done, len(module.Sprints[j].Missions)) < 100 {
			return &spotlightTarget{module: module, sprint: &module.Sprints[j]}
		}
	}
	return &spotlightTarget{module: module, sprint: &module.Sprints[len(module.Sprints)-1]}
}

// ==================== READS ====================

func (svc *DashboardService) GetDashboard(userID string) (*dto.DashboardResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	modules, err := svc.sqlSvc.GetModules()
	if err != nil {
		return nil, err
	}

	rows, err := svc.sqlSvc.ListMissionProgress(userID)
	if err != nil {
		return nil, err
	}
	progress := make(map[string]string, len(rows))
	for _, row := range rows {
		progress[row.MissionID] = row.Status
	}

	grantList, err := svc.sqlSvc.ListModuleAccess(userID)
	if err != nil {
		return nil, err
	}
	grants := make(map[string]*model.UserModuleAccess, len(grantList))
	for i := range grantList {
		grants[grantList[i].ModuleID] = &grantList[i]
	}

	var spotlight *dto.Spotlight
	if target := pickSpotlight(modules, grants, rows, progress); target != nil {
		plan, complete := buildPlan(target.sprint.Missions, progress)
		spotlight = &dto.Spotlight{
			ModuleID:     target.module.ID,
			ModuleCode:   target.module.Code,
			ModuleTitle:  target.module.Title,
			SprintID:     target.sprint.ID,
			SprintTitle:  target.sprint.Title,
			Percent:      weightedSprintPercent(target.sprint.Missions, progress),
			Plan:         plan,
			PlanComplete: complete,
			NextMission:  pickNextMission(target.sprint.Missions, progress),
		}
	}

	lastResult, err := svc.lastResult(user)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Spotlight:  spotlight,
		LastResult: *lastResult,
	}, nil
}

func (svc *DashboardService) lastResult(user *model.User) (*dto.LastResult, error) {
	now := time.Now()
	todayStart := localMidnight(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	yesterdayXP, err := svc.sqlSvc.SumXPAwardedBetween(user.ID, yesterdayStart, todayStart)
	if err != nil {
		return nil, err
	}

	todayXP := user.XPToday
	if user.XPTodayAt == nil || !localMidnight(*user.XPTodayAt).Equal(todayStart) {
		todayXP = 0
	}

	speed := 100
	if latest, err := svc.sqlSvc.GetLatestTimedCompletion(user.ID); err == nil && latest != nil {
		speed = speedPercent(latest.TimeSpentSeconds, latest.Mission.EtaMinutes)
	}

	return &dto.LastResult{
		TodayXP:      todayXP,
		YesterdayXP:  yesterdayXP,
		Grade:        gradeLabel(user.GradeAvg),
		SpeedPercent: speed,
	}, nil
}

// ==================== PLAN CLAIM ====================

func (svc *DashboardService) ClaimPlanBonus(userID string) (*dto.PlanClaimResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if user.PlanBonusClaimedAt != nil && localMidnight(*user.PlanBonusClaimedAt).Equal(localMidnight(now)) {
		return nil, shared.NewConflictError(nil, "Already claimed")
	}

	dashboard, err := svc.GetDashboard(userID)
	if err != nil {
		return nil, err
	}
	if dashboard.Spotlight == nil || !dashboard.Spotlight.PlanComplete {
		return nil, shared.NewBadRequestError(nil, "Plan is not complete yet")
	}

	if err := awardXP(svc.sqlSvc, userID, planBonusXP, "plan_bonus"); err != nil {
		return nil, err
	}

	user, err = svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.PlanBonusClaimedAt = &now
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	if err := svc.sqlSvc.CreateAnalyticsLog(&model.AnalyticsLog{
		Event:     "plan_bonus_claimed",
		UserID:    userID,
		XPAwarded: planBonusXP,
	}); err != nil {
		log.WithField("user_id", userID).Warnf("Failed to write analytics log: %v", err)
	}

	return &dto.PlanClaimResponse{
		BonusXP: planBonusXP,
		XPToday: user.XPToday,
		XPMonth: user.XPMonth,
	}, nil
}
