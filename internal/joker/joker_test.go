package joker_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/joker"
	"github.com/vytor/millionaire/internal/models"
)

func question(fractions ...float64) models.BankQuestion {
	q := models.BankQuestion{ID: 1, QType: models.QTypeSingleChoice}
	for i, f := range fractions {
		q.Answers = append(q.Answers, models.BankAnswer{ID: int64(100 + i), Fraction: f})
	}
	return q
}

func TestEliminate_TwoZeroCreditAnswers(t *testing.T) {
	q := question(0, 0, 1, 0, 0)
	for seed := int64(0); seed < 50; seed++ {
		data, err := joker.Generate(models.JokerEliminate, q, rand.New(rand.NewSource(seed)), "")
		require.NoError(t, err)

		ids, err := models.SplitIDs(data)
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.NotEqual(t, ids[0], ids[1])
		for _, id := range ids {
			assert.NotEqual(t, int64(102), id)
			assert.Contains(t, []int64{100, 101, 103, 104}, id)
		}
	}
}

func TestEliminate_FewerWrongAnswers(t *testing.T) {
	data, err := joker.Generate(models.JokerEliminate, question(1, 0), rand.New(rand.NewSource(1)), "")
	require.NoError(t, err)
	assert.Equal(t, "101", data)
}

func TestAudience_SumsToHundred(t *testing.T) {
	q := question(0, 1, 0, 0)
	for seed := int64(0); seed < 200; seed++ {
		data, err := joker.Generate(models.JokerAudience, q, rand.New(rand.NewSource(seed)), "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(data, "101="), "correct answer comes first: %s", data)

		shares, err := joker.ParseAudience(data)
		require.NoError(t, err)
		require.Len(t, shares, 4)

		sum := 0
		for id, pct := range shares {
			assert.GreaterOrEqual(t, pct, 0, "answer %d", id)
			sum += pct
		}
		assert.Equal(t, 100, sum)
		assert.GreaterOrEqual(t, shares[101], 40)
		assert.LessOrEqual(t, shares[101], 95)
	}
}

func TestAudience_OnlyCorrectAnswer(t *testing.T) {
	data, err := joker.Generate(models.JokerAudience, question(1), rand.New(rand.NewSource(1)), "")
	require.NoError(t, err)
	assert.Equal(t, "100=100", data)
}

func TestHint(t *testing.T) {
	q := question(1, 0)
	rnd := rand.New(rand.NewSource(1))

	data, err := joker.Generate(models.JokerHint, q, rnd, "No hint available.")
	require.NoError(t, err)
	assert.Equal(t, "No hint available.", data)

	q.GeneralFeedback = "Think of the Eiffel tower."
	data, err = joker.Generate(models.JokerHint, q, rnd, "No hint available.")
	require.NoError(t, err)
	assert.Equal(t, "Think of the Eiffel tower.", data)
}

func TestGenerate_Errors(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	_, err := joker.Generate(models.JokerEliminate, question(1, 1, 0), rnd, "")
	assert.ErrorIs(t, err, joker.ErrUnsupported)

	_, err = joker.Generate(models.JokerEliminate, question(0.5, 0.5, 0), rnd, "")
	assert.ErrorIs(t, err, joker.ErrUnsupported)

	_, err = joker.Generate(models.JokerType("phone"), question(1, 0), rnd, "")
	assert.Error(t, err)
}
