package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewableTask(t *testing.T) {
	task := &model.Mission{Type: shared.MissionTypeTask, Task: &model.Task{}}
	assert.NoError(t, reviewableTask(task))

	bugfix := &model.Mission{Type: shared.MissionTypeBugfix, Task: &model.Task{}}
	err := reviewableTask(bugfix)
	require.Error(t, err)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.StatusCode)

	missingPayload := &model.Mission{Type: shared.MissionTypeTask}
	err = reviewableTask(missingPayload)
	require.Error(t, err)
	appErr, ok = shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)
}

func TestReviewAccessRule(t *testing.T) {
	// Reviews go through the same module gate as execution: building modules
	// and missing grants fail before any quota or model call.
	building := &model.Module{Code: "PCAP", IsBuilding: true}
	assert.False(t, canAccessModule(building, &model.UserModuleAccess{HasAccess: true}))

	locked := &model.Module{Code: "PCEP"}
	assert.False(t, canAccessModule(locked, nil))
}

func TestLatestGrades(t *testing.T) {
	reviews := []model.TaskReview{
		{TaskID: "t1", Grade: "C"},
		{TaskID: "t2", Grade: "B"},
		{TaskID: "t1", Grade: "A"},
		{TaskID: "t3", Grade: ""},
	}

	// t1's retry replaces its first grade; the ungraded round is skipped.
	assert.Equal(t, []string{"A", "B"}, latestGrades(reviews))
	assert.Empty(t, latestGrades(nil))
}

func TestReviewsRemaining(t *testing.T) {
	assert.Equal(t, 3, reviewsRemaining(0))
	assert.Equal(t, 2, reviewsRemaining(1))
	assert.Equal(t, 0, reviewsRemaining(3))
	// Never negative even if the count drifted past the limit.
	assert.Equal(t, 0, reviewsRemaining(5))
}

func TestGradePointsAndLabelAreInverses(t *testing.T) {
	for _, grade := range allowedGrades {
		points := gradePoints(grade)
		assert.Equal(t, grade, gradeLabel(&points), "round trip for %s", grade)
	}
}

func TestGradeLabelThresholds(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{avg: 5.0, want: "A"},
		{avg: 4.75, want: "A"},
		{avg: 4.74, want: "A-"},
		{avg: 4.25, want: "A-"},
		{avg: 4.1, want: "B+"},
		{avg: 3.7, want: "B"},
		{avg: 3.2, want: "C+"},
		{avg: 2.7, want: "C"},
		{avg: 2.0, want: "D"},
		{avg: 1.0, want: "E"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeLabel(&tt.avg))
	}
}

func TestGradeLabelNilAverage(t *testing.T) {
	assert.Equal(t, "", gradeLabel(nil))
}

func TestIsAllowedGrade(t *testing.T) {
	assert.True(t, isAllowedGrade("A"))
	assert.True(t, isAllowedGrade("B+"))
	assert.False(t, isAllowedGrade("F"))
	assert.False(t, isAllowedGrade("a"))
	assert.False(t, isAllowedGrade(""))
}

func TestLocalMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	stamp := time.Date(2025, 6, 15, 23, 59, 59, 123, loc)

	got := localMidnight(stamp)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestLocalMidnightDayBoundary(t *testing.T) {
	loc := time.UTC
	lateNight := time.Date(2025, 6, 15, 23, 30, 0, 0, loc)
	earlyMorning := time.Date(2025, 6, 16, 0, 30, 0, 0, loc)

	// One hour apart on the clock, different days for quota purposes.
	assert.False(t, localMidnight(lateNight).Equal(localMidnight(earlyMorning)))
}
