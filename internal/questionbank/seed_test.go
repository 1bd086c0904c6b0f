package questionbank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository/sqlite"
	"github.com/vytor/millionaire/internal/testutil"
)

const seedYAML = `
users:
  - id: 1
    name: Teacher
    capabilities:
      - game: 0
        capability: manage
  - id: 2
    name: Student
bank:
  categories:
    - id: 10
      name: Geography
    - id: 11
      parent: 10
      name: Capitals
  questions:
    - id: 100
      category: 11
      text: Capital of France?
      general_feedback: It is on the Seine.
      answers:
        - {id: 1000, text: Paris, fraction: 1}
        - {id: 1001, text: Lyon, fraction: 0}
        - {id: 1002, text: Nice, fraction: 0}
games:
  - id: 5
    name: Geography ladder
    question_shuffle_answers: false
    highscore_mode: last
    levels:
      - score: 50
        categories:
          - {category: 10, subcategories: true}
      - name: Draft
        score: 75
        state: private
      - score: 100
        safe_spot: true
`

func TestParse(t *testing.T) {
	seed, err := Parse([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, seed.Games, 1)

	game := seed.Games[0].game()
	assert.Equal(t, int64(5), game.ID)
	assert.Equal(t, "€", game.CurrencyForLevels)
	assert.True(t, game.QuestionRepeatable, "unset options keep the defaults")
	assert.False(t, game.QuestionShuffleAnswers)
	assert.Equal(t, models.HighscoreModeLast, game.HighscoreMode)
	assert.Equal(t, 5, game.HighscoreCount)

	require.Len(t, seed.Bank.Questions, 1)
	assert.Equal(t, "Capital of France?", seed.Bank.Questions[0].Text)
	assert.Equal(t, int64(10), seed.Bank.Categories[1].ParentID)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "games: [\n"},
		{"game without id", "games:\n  - name: x\n"},
		{"bad mode", "games:\n  - id: 1\n    highscore_mode: median\n"},
		{"bad level state", "games:\n  - id: 1\n    levels:\n      - state: deleted\n"},
		{"question without category", "bank:\n  questions:\n    - id: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestImport(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ctx := context.Background()

	seed, err := Parse([]byte(seedYAML))
	require.NoError(t, err)

	bank := sqlite.NewBankRepository(sqlDB)
	dir := sqlite.NewDirectory(sqlDB)
	store := sqlite.NewStore(sqlDB)
	importer := NewImporter(store, bank, dir)

	res, err := importer.Import(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Categories: 2, Questions: 1, GamesCreated: 1, Levels: 3}, res)

	levels, err := store.Levels().List(ctx, models.LevelFilter{GameID: 5, States: []string{models.LevelStateActive}})
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, 50, levels[0].Score)
	assert.Equal(t, 1, levels[1].Position)
	assert.True(t, levels[1].SafeSpot)

	categories, err := store.Categories().ListByLevel(ctx, levels[0].ID)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	ids, err := bank.CategoryIDs(ctx, categories[0].BankCategoryID, categories[0].IncludeSubcategories)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, ids)

	q, err := bank.Question(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, models.QTypeSingleChoice, q.QType)
	correct, ok := q.CorrectAnswer()
	require.True(t, ok)
	assert.Equal(t, int64(1000), correct.ID)

	teacher, err := dir.HasCapability(ctx, 5, 1, models.CapabilityManage)
	require.NoError(t, err)
	assert.True(t, teacher)

	again, err := importer.Import(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, again.GamesSkipped)
	assert.Zero(t, again.Levels)

	count, err := store.Levels().Count(ctx, models.LevelFilter{GameID: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
