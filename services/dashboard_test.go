package services

import (
	"testing"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missionSet() []model.Mission {
	return []model.Mission{
		{ID: "t1", Type: shared.MissionTypeTask},
		{ID: "t2", Type: shared.MissionTypeBugfix},
		{ID: "a1", Type: shared.MissionTypeArticle},
		{ID: "q1", Type: shared.MissionTypeQuiz},
	}
}

func TestWeightedSprintPercent(t *testing.T) {
	missions := missionSet()

	t.Run("nothing done", func(t *testing.T) {
		assert.Equal(t, 0, weightedSprintPercent(missions, map[string]string{}))
	})

	t.Run("everything done", func(t *testing.T) {
		progress := map[string]string{
			"t1": shared.StatusDone, "t2": shared.StatusDone,
			"a1": shared.StatusDone, "q1": shared.StatusDone,
		}
		assert.Equal(t, 100, weightedSprintPercent(missions, progress))
	})

	t.Run("tasks dominate the weighting", func(t *testing.T) {
		// Both tasks done, nothing else: 0.70*1 = 70.
		progress := map[string]string{"t1": shared.StatusDone, "t2": shared.StatusDone}
		assert.Equal(t, 70, weightedSprintPercent(missions, progress))
	})

	t.Run("diverges from flat percent", func(t *testing.T) {
		// One of four missions done. Flat percent says 25, weighted says 35.
		progress := map[string]string{"t1": shared.StatusDone}
		assert.Equal(t, 25, sprintPercent(1, len(missions)))
		assert.Equal(t, 35, weightedSprintPercent(missions, progress))
	})

	t.Run("empty buckets earn full credit", func(t *testing.T) {
		tasksOnly := []model.Mission{
			{ID: "t1", Type: shared.MissionTypeTask},
		}
		progress := map[string]string{"t1": shared.StatusDone}
		assert.Equal(t, 100, weightedSprintPercent(tasksOnly, progress))
	})

	t.Run("article share needs every article", func(t *testing.T) {
		articles := []model.Mission{
			{ID: "a1", Type: shared.MissionTypeArticle},
			{ID: "a2", Type: shared.MissionTypeArticle},
		}
		progress := map[string]string{"a1": shared.StatusDone}
		// Task and quiz buckets are empty; the article share is withheld
		// until both articles are read.
		assert.Equal(t, 85, weightedSprintPercent(articles, progress))
		progress["a2"] = shared.StatusDone
		assert.Equal(t, 100, weightedSprintPercent(articles, progress))
	})
}

func TestSkillTestsStayOutOfDashboardBuckets(t *testing.T) {
	missions := []model.Mission{
		{ID: "t1", Type: shared.MissionTypeTask},
		{ID: "st1", Type: shared.MissionTypeSkillTest},
	}
	progress := map[string]string{"t1": shared.StatusDone}

	// The unfinished skill test affects neither the weighted percent nor
	// the plan; it still counts toward the plain sprint percent.
	assert.Equal(t, 100, weightedSprintPercent(missions, progress))
	assert.Equal(t, 50, sprintPercent(countDone(progress, missions), len(missions)))

	items, complete := buildPlan(missions, progress)
	assert.Empty(t, items)
	assert.True(t, complete)
}

func TestBuildPlanTaskCreditIsBinary(t *testing.T) {
	missions := []model.Mission{
		{ID: "t1", Type: shared.MissionTypeTask},
		{ID: "t2", Type: shared.MissionTypeTask},
	}

	t.Run("no task done", func(t *testing.T) {
		items, complete := buildPlan(missions, map[string]string{})
		require.Len(t, items, 1)
		assert.Equal(t, shared.MissionTypeTask, items[0].Type)
		assert.Equal(t, 0, items[0].Percent)
		assert.False(t, items[0].OK)
		assert.False(t, complete)
	})

	t.Run("one of two done claims the bucket", func(t *testing.T) {
		items, complete := buildPlan(missions, map[string]string{"t1": shared.StatusDone})
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].Done)
		assert.Equal(t, 2, items[0].Total)
		assert.Equal(t, 100, items[0].Percent)
		assert.True(t, items[0].OK)
		assert.True(t, complete)
	})
}

func TestBuildPlanQuizCreditIsBinary(t *testing.T) {
	missions := []model.Mission{
		{ID: "q1", Type: shared.MissionTypeQuiz},
		{ID: "q2", Type: shared.MissionTypeQuiz},
		{ID: "q3", Type: shared.MissionTypeQuiz},
	}

	t.Run("no quiz done", func(t *testing.T) {
		items, complete := buildPlan(missions, map[string]string{})
		require.Len(t, items, 1)
		assert.Equal(t, 0, items[0].Percent)
		assert.False(t, items[0].OK)
		assert.False(t, complete)
	})

	t.Run("one quiz done satisfies the bucket", func(t *testing.T) {
		items, complete := buildPlan(missions, map[string]string{"q1": shared.StatusDone})
		require.Len(t, items, 1)
		assert.Equal(t, 100, items[0].Percent)
		assert.True(t, items[0].OK)
		assert.True(t, complete)
	})
}

func TestBuildPlanFinishedTypesDropOut(t *testing.T) {
	missions := missionSet()
	progress := map[string]string{
		"t1": shared.StatusDone, "t2": shared.StatusDone,
	}

	items, complete := buildPlan(missions, progress)

	// Tasks are done so they leave the plan; article and quiz remain.
	require.Len(t, items, 2)
	assert.Equal(t, shared.MissionTypeArticle, items[0].Type)
	assert.Equal(t, shared.MissionTypeQuiz, items[1].Type)
	assert.False(t, complete)
}

func TestBuildPlanEmptyScopeIsComplete(t *testing.T) {
	missions := missionSet()
	progress := map[string]string{
		"t1": shared.StatusDone, "t2": shared.StatusDone,
		"a1": shared.StatusDone, "q1": shared.StatusDone,
	}

	items, complete := buildPlan(missions, progress)

	assert.Empty(t, items)
	assert.True(t, complete)
}

func TestBuildPlanNoMissions(t *testing.T) {
	items, complete := buildPlan(nil, map[string]string{})
	assert.Empty(t, items)
	assert.True(t, complete)
}

func TestSpeedPercent(t *testing.T) {
	tests := []struct {
		name      string
		timeSpent int
		eta       int
		want      int
	}{
		{name: "no data defaults to par", timeSpent: 0, eta: 10, want: 100},
		{name: "no eta defaults to par", timeSpent: 300, eta: 0, want: 100},
		{name: "well ahead of estimate", timeSpent: 400, eta: 10, want: 120},
		{name: "around the estimate", timeSpent: 600, eta: 10, want: 100},
		{name: "slightly over", timeSpent: 700, eta: 10, want: 100},
		{name: "well over", timeSpent: 900, eta: 10, want: 80},
		{name: "double the estimate", timeSpent: 1200, eta: 10, want: 80},
		{name: "way over", timeSpent: 1500, eta: 10, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, speedPercent(tt.timeSpent, tt.eta))
		})
	}
}

func TestPickNextMission(t *testing.T) {
	missions := missionSet()
	progress := map[string]string{
		"t1": shared.StatusDone,
		"t2": shared.StatusInProgress,
	}

	next := pickNextMission(missions, progress)

	require.NotNil(t, next)
	assert.Equal(t, "t2", next.ID)
	assert.Equal(t, "/missions/task/t2", next.Route)
}

func TestPickNextMissionAllDone(t *testing.T) {
	missions := []model.Mission{{ID: "t1", Type: shared.MissionTypeTask}}
	progress := map[string]string{"t1": shared.StatusDone}

	assert.Nil(t, pickNextMission(missions, progress))
}

func TestResolveSprintPrefersFirstIncomplete(t *testing.T) {
	module := &model.Module{
		ID: "m1",
		Sprints: []model.Sprint{
			{ID: "s1", Missions: []model.Mission{{ID: "a"}}},
			{ID: "s2", Missions: []model.Mission{{ID: "b"}}},
		},
	}
	progress := map[string]string{"a": shared.StatusDone}

	target := resolveSprint(module, nil, progress)

	require.NotNil(t, target)
	assert.Equal(t, "s2", target.sprint.ID)
}

func TestResolveSprintFallsBackToLast(t *testing.T) {
	module := &model.Module{
		ID: "m1",
		Sprints: []model.Sprint{
			{ID: "s1", Missions: []model.Mission{{ID: "a"}}},
			{ID: "s2", Missions: []model.Mission{{ID: "b"}}},
		},
	}
	progress := map[string]string{"a": shared.StatusDone, "b": shared.StatusDone}

	target := resolveSprint(module, nil, progress)

	require.NotNil(t, target)
	assert.Equal(t, "s2", target.sprint.ID)
}
