package services

import (
	"testing"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySaveFirstTouch(t *testing.T) {
	now := time.Now()
	progress := &model.UserMissionProgress{Status: shared.StatusTodo}

	applySave(progress, "print('hi')", 120, now)

	assert.Equal(t, shared.StatusInProgress, progress.Status)
	assert.Equal(t, "print('hi')", progress.UserCode)
	require.NotNil(t, progress.StartedAt)
	assert.Equal(t, now, *progress.StartedAt)
	assert.Equal(t, 120, progress.TimeSpentSeconds)
}

func TestApplySaveAccumulatesTime(t *testing.T) {
	now := time.Now()
	started := now.Add(-time.Hour)
	progress := &model.UserMissionProgress{
		Status:           shared.StatusInProgress,
		StartedAt:        &started,
		TimeSpentSeconds: 300,
	}

	applySave(progress, "v2", 60, now)

	assert.Equal(t, 360, progress.TimeSpentSeconds)
	// The original start stamp is preserved.
	assert.Equal(t, started, *progress.StartedAt)
}

func TestApplySaveDoneIsSticky(t *testing.T) {
	now := time.Now()
	completed := now.Add(-time.Hour)
	progress := &model.UserMissionProgress{
		Status:           shared.StatusDone,
		CompletedAt:      &completed,
		TimeSpentSeconds: 500,
		UserCode:         "old",
	}

	applySave(progress, "new draft", 60, now)

	// Only the draft and the open stamp move.
	assert.Equal(t, shared.StatusDone, progress.Status)
	assert.Equal(t, "new draft", progress.UserCode)
	assert.Equal(t, 500, progress.TimeSpentSeconds)
	assert.Equal(t, completed, *progress.CompletedAt)
	require.NotNil(t, progress.LastOpenedAt)
}

func TestApplySaveNegativeTimeIgnored(t *testing.T) {
	progress := &model.UserMissionProgress{Status: shared.StatusTodo}
	applySave(progress, "x", -10, time.Now())
	assert.Equal(t, 0, progress.TimeSpentSeconds)
}

func TestPublicTestsCap(t *testing.T) {
	cases := []model.TaskTestCase{
		{ID: "t1", IsPublic: true, Input: "1"},
		{ID: "t2", IsPublic: false},
		{ID: "t3", IsPublic: true, Input: "3"},
		{ID: "t4", IsPublic: true, Input: "4"},
		{ID: "t5", IsPublic: true, Input: "5"},
	}

	got := publicTests(cases)

	require.Len(t, got, 3)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
	assert.Equal(t, "t4", got[2].ID)
}

func TestPublicTestsNoneMarked(t *testing.T) {
	cases := []model.TaskTestCase{{ID: "t1"}, {ID: "t2"}}
	assert.Empty(t, publicTests(cases))
}

func TestGradeQuiz(t *testing.T) {
	questions := []model.QuizQuestion{
		{ID: "q1", Options: []model.QuizOption{
			{ID: "q1a", IsCorrect: true},
			{ID: "q1b"},
		}},
		{ID: "q2", Options: []model.QuizOption{
			{ID: "q2a"},
			{ID: "q2b", IsCorrect: true},
		}},
		{ID: "q3", Options: []model.QuizOption{
			{ID: "q3a", IsCorrect: true},
			{ID: "q3b"},
		}},
	}

	tests := []struct {
		name    string
		answers map[string]string
		want    int
	}{
		{name: "all correct", answers: map[string]string{"q1": "q1a", "q2": "q2b", "q3": "q3a"}, want: 3},
		{name: "one wrong", answers: map[string]string{"q1": "q1a", "q2": "q2a", "q3": "q3a"}, want: 2},
		{name: "skipped question scores zero", answers: map[string]string{"q1": "q1a"}, want: 1},
		{name: "unknown option id", answers: map[string]string{"q1": "nope"}, want: 0},
		{name: "answer for unknown question ignored", answers: map[string]string{"zzz": "q1a"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, total := gradeQuiz(questions, tt.answers)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, 3, total)
		})
	}
}

func TestQuizPassPercent(t *testing.T) {
	assert.Equal(t, 80, quizPassPercent(&model.Mission{}))

	custom := 60
	assert.Equal(t, 60, quizPassPercent(&model.Mission{PassPercent: &custom}))
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 0, percentOf(0, 0))
	assert.Equal(t, 67, percentOf(2, 3))
	assert.Equal(t, 100, percentOf(5, 5))
}
