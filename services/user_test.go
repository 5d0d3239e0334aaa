package services

import (
	"testing"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueForRank(t *testing.T) {
	tests := []struct {
		rank int
		want string
	}{
		{rank: 1, want: shared.LeagueChampions},
		{rank: 3, want: shared.LeagueChampions},
		{rank: 4, want: shared.LeagueGold},
		{rank: 10, want: shared.LeagueGold},
		{rank: 11, want: shared.LeagueSilver},
		{rank: 50, want: shared.LeagueSilver},
		{rank: 51, want: shared.LeagueBronze},
		{rank: 1000, want: shared.LeagueBronze},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, leagueForRank(tt.rank))
	}
}

func TestRollStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	threeDaysAgo := now.AddDate(0, 0, -3)

	t.Run("first activity ever", func(t *testing.T) {
		current, best, changed := rollStreak(0, 0, nil, now)
		assert.Equal(t, 1, current)
		assert.Equal(t, 1, best)
		assert.True(t, changed)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		earlier := now.Add(-2 * time.Hour)
		current, best, changed := rollStreak(4, 6, &earlier, now)
		assert.Equal(t, 4, current)
		assert.Equal(t, 6, best)
		assert.False(t, changed)
	})

	t.Run("next day extends", func(t *testing.T) {
		current, best, changed := rollStreak(4, 4, &yesterday, now)
		assert.Equal(t, 5, current)
		assert.Equal(t, 5, best)
		assert.True(t, changed)
	})

	t.Run("gap resets to one", func(t *testing.T) {
		current, best, changed := rollStreak(9, 9, &threeDaysAgo, now)
		assert.Equal(t, 1, current)
		assert.Equal(t, 9, best)
		assert.True(t, changed)
	})

	t.Run("late night to early morning still counts", func(t *testing.T) {
		lateNight := time.Date(2025, 6, 14, 23, 45, 0, 0, time.UTC)
		earlyMorning := time.Date(2025, 6, 15, 0, 15, 0, 0, time.UTC)
		current, _, changed := rollStreak(2, 2, &lateNight, earlyMorning)
		assert.Equal(t, 3, current)
		assert.True(t, changed)
	})
}

func TestBuildRankingPositionalSplit(t *testing.T) {
	users := []model.User{
		{ID: "u1", NickName: "first", XPMonth: 900},
		{ID: "u2", NickName: "second", XPMonth: 800},
		{ID: "u3", NickName: "third", XPMonth: 700},
		{ID: "u4", NickName: "fourth", XPMonth: 600},
		{ID: "u5", NickName: "fifth", XPMonth: 500},
	}

	ranking := buildRanking(users)

	require.Len(t, ranking.Champions, 3)
	require.Len(t, ranking.Users, 2)
	assert.Equal(t, "u1", ranking.Champions[0].ID)
	assert.Equal(t, 1, ranking.Champions[0].Rank)
	assert.Equal(t, shared.LeagueChampions, ranking.Champions[2].League)
	assert.Equal(t, 4, ranking.Users[0].Rank)
	assert.Equal(t, shared.LeagueGold, ranking.Users[0].League)
}

func TestBuildRankingTiesSplitPositionally(t *testing.T) {
	// Four users on identical XP: the first three listed are champions anyway.
	users := []model.User{
		{ID: "u1", XPMonth: 500},
		{ID: "u2", XPMonth: 500},
		{ID: "u3", XPMonth: 500},
		{ID: "u4", XPMonth: 500},
	}

	ranking := buildRanking(users)

	require.Len(t, ranking.Champions, 3)
	require.Len(t, ranking.Users, 1)
	assert.Equal(t, "u4", ranking.Users[0].ID)
	assert.Equal(t, 4, ranking.Users[0].Rank)
}

func TestBuildRankingFewerThanThreeUsers(t *testing.T) {
	users := []model.User{
		{ID: "u1", XPMonth: 100},
		{ID: "u2", XPMonth: 50},
	}

	ranking := buildRanking(users)

	assert.Len(t, ranking.Champions, 2)
	assert.Empty(t, ranking.Users)
}

func TestBuildRankingEmpty(t *testing.T) {
	ranking := buildRanking(nil)
	assert.Empty(t, ranking.Champions)
	assert.Empty(t, ranking.Users)
}

func TestBuildRankingCarriesGradeLabel(t *testing.T) {
	avg := 4.8
	users := []model.User{{ID: "u1", XPMonth: 100, GradeAvg: &avg}}

	ranking := buildRanking(users)

	require.Len(t, ranking.Champions, 1)
	assert.Equal(t, "A", ranking.Champions[0].Grade)
}
