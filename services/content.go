package services

import (
	"math"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"

	"github.com/alphabatem/common/context"
)

// ContentService serves the curriculum catalog with per-user progress,
// lock-chain and access state computed on read. Nothing here is stored:
// all statuses derive from mission progress rows and access grants.
type ContentService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== PURE AGGREGATION ====================

// sprintPercent counts every mission type equally. An empty sprint is 0.
func sprintPercent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// canAccessModule is the single access rule. Grants are never synthesized
// for public modules; the allow-list applies at check time.
func canAccessModule(module *model.Module, grant *model.UserModuleAccess) bool {
	if module.IsBuilding {
		return false
	}
	if grant != nil && grant.HasAccess {
		return true
	}
	return shared.IsPublicModuleCode(module.Code)
}

// sprintStatus resolves the lock chain: sprint 0 is open, every later
// sprint requires the previous one at 100 percent.
func sprintStatus(idx int, percents []int, accessible bool) string {
	if !accessible {
		return dto.SprintStatusLocked
	}
	if idx > 0 && percents[idx-1] < 100 {
		return dto.SprintStatusLocked
	}
	if percents[idx] >= 100 {
		return dto.SprintStatusDone
	}
	if percents[idx] > 0 {
		return dto.SprintStatusInProgress
	}
	return dto.SprintStatusAvailable
}

// moduleStatus applies the header priority: building beats locked beats
// completed beats available.
func moduleStatus(module *model.Module, grant *model.UserModuleAccess, completedAt *time.Time, percents []int) string {
	if module.IsBuilding {
		return dto.ModuleStatusBuilding
	}
	if (grant == nil || !grant.HasAccess) && !shared.IsPublicModuleCode(module.Code) {
		return dto.ModuleStatusLocked
	}
	if completedAt != nil {
		return dto.ModuleStatusCompleted
	}
	if len(percents) > 0 {
		all := true
		for _, p := range percents {
			if p < 100 {
				all = false
				break
			}
		}
		if all {
			return dto.ModuleStatusCompleted
		}
	}
	return dto.ModuleStatusAvailable
}

func missionRoute(missionType, id string) string {
	switch missionType {
	case shared.MissionTypeTask, shared.MissionTypeBugfix, shared.MissionTypeSkillTest:
		return "/missions/task/" + id
	case shared.MissionTypeQuiz:
		return "/missions/quiz/" + id
	case shared.MissionTypeArticle:
		return "/missions/article/" + id
	}
	return "/missions/" + id
}

func progressStatus(progress map[string]string, missionID string) string {
	if s, ok := progress[missionID]; ok {
		return s
	}
	return shared.StatusTodo
}

func countDone(progress map[string]string, missions []model.Mission) int {
	done := 0
	for _, m := range missions {
		if progressStatus(progress, m.ID) == shared.StatusDone {
			done++
		}
	}
	return done
}

// ==================== CATALOG READS ====================

func (svc *ContentService) progressIndex(userID string) (map[string]string, error) {
	rows, err := svc.sqlSvc.ListMissionProgress(userID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(rows))
	for _, row := range rows {
		index[row.MissionID] = row.Status
	}
	return index, nil
}

func (svc *ContentService) grantIndex(userID string) (map[string]*model.UserModuleAccess, error) {
	grants, err := svc.sqlSvc.ListModuleAccess(userID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*model.UserModuleAccess, len(grants))
	for i := range grants {
		index[grants[i].ModuleID] = &grants[i]
	}
	return index, nil
}

func (svc *ContentService) GetModules(userID string) ([]dto.ModuleSummary, error) {
	modules, err := svc.sqlSvc.GetModules()
	if err != nil {
		return nil, err
	}

	progress, err := svc.progressIndex(userID)
	if err != nil {
		return nil, err
	}
	grants, err := svc.grantIndex(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ModuleSummary, 0, len(modules))
	for i := range modules {
		module := &modules[i]
		grant := grants[module.ID]

		percents := make([]int, len(module.Sprints))
		doneMissions, totalMissions, sprintsDone := 0, 0, 0
		for j := range module.Sprints {
			done := countDone(progress, module.Sprints[j].Missions)
			total := len(module.Sprints[j].Missions)
			percents[j] = sprintPercent(done, total)
			doneMissions += done
			totalMissions += total
			if percents[j] >= 100 {
				sprintsDone++
			}
		}

		var completedAt *time.Time
		if grant != nil {
			completedAt = grant.CompletedAt
		}

		summaries = append(summaries, dto.ModuleSummary{
			ID:              module.ID,
			Code:            module.Code,
			Name:            module.Name,
			Title:           module.Title,
			Description:     module.Description,
			Category:        module.Category,
			Difficulty:      module.Difficulty,
			Status:          moduleStatus(module, grant, completedAt, percents),
			ProgressPercent: sprintPercent(doneMissions, totalMissions),
			SprintsDone:     sprintsDone,
			SprintsTotal:    len(module.Sprints),
		})
	}

	return summaries, nil
}

func (svc *ContentService) GetModuleDetail(userID, moduleID string) (*dto.ModuleDetailResponse, error) {
	module, err := svc.sqlSvc.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.progressIndex(userID)
	if err != nil {
		return nil, err
	}

	grant, err := svc.moduleGrant(userID, moduleID)
	if err != nil {
		return nil, err
	}

	accessible := canAccessModule(module, grant)

	percents := make([]int, len(module.Sprints))
	doneCounts := make([]int, len(module.Sprints))
	sprintsDone := 0
	for j := range module.Sprints {
		doneCounts[j] = countDone(progress, module.Sprints[j].Missions)
		percents[j] = sprintPercent(doneCounts[j], len(module.Sprints[j].Missions))
		if percents[j] >= 100 {
			sprintsDone++
		}
	}

	sprints := make([]dto.SprintView, 0, len(module.Sprints))
	for j := range module.Sprints {
		sprint := &module.Sprints[j]
		sprints = append(sprints, dto.SprintView{
			ID:            sprint.ID,
			Name:          sprint.Name,
			Order:         sprint.Order,
			Title:         sprint.Title,
			Description:   sprint.Description,
			Status:        sprintStatus(j, percents, accessible),
			Percent:       percents[j],
			MissionsDone:  doneCounts[j],
			MissionsTotal: len(sprint.Missions),
		})
	}

	var completedAt *time.Time
	if grant != nil {
		completedAt = grant.CompletedAt
	}

	return &dto.ModuleDetailResponse{
		Module: dto.ModuleHeader{
			ID:           module.ID,
			Code:         module.Code,
			Name:         module.Name,
			Title:        module.Title,
			Description:  module.Description,
			Requirements: module.Requirements,
			Category:     module.Category,
			Difficulty:   module.Difficulty,
			Status:       moduleStatus(module, grant, completedAt, percents),
			SprintsDone:  sprintsDone,
			SprintsTotal: len(module.Sprints),
		},
		Sprints: sprints,
	}, nil
}

func (svc *ContentService) moduleGrant(userID, moduleID string) (*model.UserModuleAccess, error) {
	grant, err := svc.sqlSvc.GetModuleAccess(userID, moduleID)
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, err
	}
	return grant, nil
}

func (svc *ContentService) UnlockModule(userID, moduleID string) error {
	module, err := svc.sqlSvc.GetModule(moduleID)
	if err != nil {
		return err
	}

	if module.IsBuilding {
		return shared.NewConflictError(nil, "Module is still being built")
	}

	now := time.Now()
	return svc.sqlSvc.UpsertModuleAccess(&model.UserModuleAccess{
		UserID:    userID,
		ModuleID:  moduleID,
		HasAccess: true,
		StartedAt: &now,
	})
}

func (svc *ContentService) GetSprintDetail(userID, moduleID, sprintID string) (*dto.SprintDetailResponse, error) {
	module, err := svc.sqlSvc.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	grant, err := svc.moduleGrant(userID, moduleID)
	if err != nil {
		return nil, err
	}

	if !canAccessModule(module, grant) {
		return nil, shared.NewForbiddenError(nil, "Module is locked")
	}

	sprint, err := svc.sqlSvc.GetSprint(moduleID, sprintID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.progressIndex(userID)
	if err != nil {
		return nil, err
	}

	percents := make([]int, len(module.Sprints))
	sprintIdx := 0
	for j := range module.Sprints {
		done := countDone(progress, module.Sprints[j].Missions)
		percents[j] = sprintPercent(done, len(module.Sprints[j].Missions))
		if module.Sprints[j].ID == sprintID {
			sprintIdx = j
		}
	}

	missions := make([]dto.MissionSummary, 0, len(sprint.Missions))
	for _, m := range sprint.Missions {
		missions = append(missions, dto.MissionSummary{
			ID:         m.ID,
			Type:       m.Type,
			Title:      m.Title,
			ShortDesc:  m.ShortDesc,
			Difficulty: m.Difficulty,
			EtaMinutes: m.EtaMinutes,
			XP:         m.XP,
			Status:     progressStatus(progress, m.ID),
			Route:      missionRoute(m.Type, m.ID),
		})
	}

	done := countDone(progress, sprint.Missions)
	return &dto.SprintDetailResponse{
		Sprint: dto.SprintView{
			ID:            sprint.ID,
			Name:          sprint.Name,
			Order:         sprint.Order,
			Title:         sprint.Title,
			Description:   sprint.Description,
			Status:        sprintStatus(sprintIdx, percents, true),
			Percent:       percents[sprintIdx],
			MissionsDone:  done,
			MissionsTotal: len(sprint.Missions),
		},
		Missions: missions,
	}, nil
}

func (svc *ContentService) GetMissions(userID string) ([]dto.MissionSummary, error) {
	missions, err := svc.sqlSvc.GetMissions()
	if err != nil {
		return nil, err
	}

	progress, err := svc.progressIndex(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.MissionSummary, 0, len(missions))
	for _, m := range missions {
		summaries = append(summaries, dto.MissionSummary{
			ID:         m.ID,
			Type:       m.Type,
			Title:      m.Title,
			ShortDesc:  m.ShortDesc,
			Difficulty: m.Difficulty,
			EtaMinutes: m.EtaMinutes,
			XP:         m.XP,
			Status:     progressStatus(progress, m.ID),
			Route:      missionRoute(m.Type, m.ID),
		})
	}

	return summaries, nil
}
