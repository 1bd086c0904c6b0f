package ladder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/ladder"
	"github.com/vytor/millionaire/internal/models"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		mode   string
		scores []int
		want   int
	}{
		{mode: models.HighscoreModeBest, scores: []int{10, 50, 20}, want: 50},
		{mode: models.HighscoreModeLast, scores: []int{10, 50, 20}, want: 20},
		{mode: models.HighscoreModeAverage, scores: []int{10, 20}, want: 15},
		{mode: models.HighscoreModeAverage, scores: []int{1, 2}, want: 2},
		{mode: models.HighscoreModeAverage, scores: []int{1, 1, 2}, want: 1},
		{mode: models.HighscoreModeAverage, scores: nil, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ladder.Aggregate(tt.mode, tt.scores), "%s %v", tt.mode, tt.scores)
	}
}

func TestAggregateSessions_CountsAllFinished(t *testing.T) {
	sessions := []models.GameSession{
		{UserID: 1, Score: 100, State: models.SessionStateFinished},
		{UserID: 2, Score: 40, State: models.SessionStateFinished},
		{UserID: 1, Score: 20, State: models.SessionStateFinished},
		{UserID: 1, Score: 999, State: models.SessionStateDumped},
		{UserID: 2, Score: 999, State: models.SessionStateProgress},
	}

	got := ladder.AggregateSessions(models.HighscoreModeLast, sessions)
	require.Len(t, got, 2)
	assert.Equal(t, models.UserAggregate{UserID: 1, Score: 20, Sessions: 2}, got[0])
	assert.Equal(t, models.UserAggregate{UserID: 2, Score: 40, Sessions: 1}, got[1])
}

func TestRank_HiddenTeachersDoNotConsumeRank(t *testing.T) {
	rows := []models.ScoreRow{
		{UserID: 3, Score: 50},
		{UserID: 1, Score: 90, Teacher: true},
		{UserID: 2, Score: 50},
		{UserID: 4, Score: 10},
	}

	ranked := ladder.Rank(rows, false)

	require.Len(t, ranked, 4)
	assert.Equal(t, []int64{1, 2, 3, 4}, []int64{ranked[0].UserID, ranked[1].UserID, ranked[2].UserID, ranked[3].UserID})
	assert.Equal(t, []int{0, 1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank, ranked[3].Rank})
}

func TestRank_TeachersShown(t *testing.T) {
	ranked := ladder.Rank([]models.ScoreRow{{UserID: 1, Score: 90, Teacher: true}, {UserID: 2, Score: 50}}, true)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
}
