package services

import (
	"testing"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	"github.com/stretchr/testify/assert"
)

func TestSprintPercent(t *testing.T) {
	tests := []struct {
		name        string
		done, total int
		want        int
	}{
		{name: "empty sprint", done: 0, total: 0, want: 0},
		{name: "nothing done", done: 0, total: 5, want: 0},
		{name: "one of three rounds up", done: 1, total: 3, want: 33},
		{name: "two of three rounds up", done: 2, total: 3, want: 67},
		{name: "half", done: 2, total: 4, want: 50},
		{name: "all done", done: 7, total: 7, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sprintPercent(tt.done, tt.total))
		})
	}
}

func TestCanAccessModule(t *testing.T) {
	granted := &model.UserModuleAccess{HasAccess: true}
	revoked := &model.UserModuleAccess{HasAccess: false}

	tests := []struct {
		name   string
		module model.Module
		grant  *model.UserModuleAccess
		want   bool
	}{
		{name: "public module without grant", module: model.Module{Code: "BASICS"}, want: true},
		{name: "private module without grant", module: model.Module{Code: "PCEP"}, want: false},
		{name: "private module with grant", module: model.Module{Code: "PCEP"}, grant: granted, want: true},
		{name: "revoked grant falls back to allow-list", module: model.Module{Code: "PCEP"}, grant: revoked, want: false},
		{name: "building blocks even a grant", module: model.Module{Code: "PCAP", IsBuilding: true}, grant: granted, want: false},
		{name: "building blocks public too", module: model.Module{Code: "BASICS", IsBuilding: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canAccessModule(&tt.module, tt.grant))
		})
	}
}

func TestSprintStatusLockChain(t *testing.T) {
	percents := []int{100, 60, 0}

	assert.Equal(t, dto.SprintStatusDone, sprintStatus(0, percents, true))
	assert.Equal(t, dto.SprintStatusInProgress, sprintStatus(1, percents, true))
	// Sprint 2 is locked because sprint 1 is below 100, even though it has no progress.
	assert.Equal(t, dto.SprintStatusLocked, sprintStatus(2, percents, true))
}

func TestSprintStatusFirstSprintOpen(t *testing.T) {
	assert.Equal(t, dto.SprintStatusAvailable, sprintStatus(0, []int{0, 0}, true))
}

func TestSprintStatusInaccessibleModule(t *testing.T) {
	// An inaccessible module locks every sprint regardless of progress.
	percents := []int{100, 100}
	assert.Equal(t, dto.SprintStatusLocked, sprintStatus(0, percents, false))
	assert.Equal(t, dto.SprintStatusLocked, sprintStatus(1, percents, false))
}

func TestModuleStatusPriority(t *testing.T) {
	now := time.Now()
	granted := &model.UserModuleAccess{HasAccess: true}

	t.Run("building wins over everything", func(t *testing.T) {
		module := model.Module{Code: "BASICS", IsBuilding: true}
		got := moduleStatus(&module, granted, &now, []int{100})
		assert.Equal(t, dto.ModuleStatusBuilding, got)
	})

	t.Run("locked without grant", func(t *testing.T) {
		module := model.Module{Code: "PCEP"}
		got := moduleStatus(&module, nil, nil, []int{0})
		assert.Equal(t, dto.ModuleStatusLocked, got)
	})

	t.Run("completed via stamp", func(t *testing.T) {
		module := model.Module{Code: "PCEP"}
		got := moduleStatus(&module, granted, &now, []int{50})
		assert.Equal(t, dto.ModuleStatusCompleted, got)
	})

	t.Run("completed via all sprints done", func(t *testing.T) {
		module := model.Module{Code: "PCEP"}
		got := moduleStatus(&module, granted, nil, []int{100, 100})
		assert.Equal(t, dto.ModuleStatusCompleted, got)
	})

	t.Run("available otherwise", func(t *testing.T) {
		module := model.Module{Code: "BASICS"}
		got := moduleStatus(&module, nil, nil, []int{40, 0})
		assert.Equal(t, dto.ModuleStatusAvailable, got)
	})
}

func TestMissionRoute(t *testing.T) {
	assert.Equal(t, "/missions/task/m1", missionRoute(shared.MissionTypeTask, "m1"))
	assert.Equal(t, "/missions/task/m2", missionRoute(shared.MissionTypeBugfix, "m2"))
	assert.Equal(t, "/missions/task/m3", missionRoute(shared.MissionTypeSkillTest, "m3"))
	assert.Equal(t, "/missions/quiz/m4", missionRoute(shared.MissionTypeQuiz, "m4"))
	assert.Equal(t, "/missions/article/m5", missionRoute(shared.MissionTypeArticle, "m5"))
}

func TestCountDone(t *testing.T) {
	missions := []model.Mission{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	progress := map[string]string{
		"a": shared.StatusDone,
		"b": shared.StatusInProgress,
	}

	assert.Equal(t, 1, countDone(progress, missions))
	assert.Equal(t, shared.StatusTodo, progressStatus(progress, "c"))
}
