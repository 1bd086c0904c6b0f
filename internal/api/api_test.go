package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/models"
	"github.com/vytor/millionaire/internal/repository/sqlite"
	"github.com/vytor/millionaire/internal/services"
	"github.com/vytor/millionaire/internal/testutil"
)

const userID = "7"

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, sqlDB *sql.DB) *testServer {
	store := sqlite.NewStore(sqlDB)
	bank := sqlite.NewBankRepository(sqlDB)
	dir := sqlite.NewDirectory(sqlDB)
	rnd := rand.New(rand.NewSource(1))
	scores := cache.Noop{}

	srv := &Server{
		GameService:    services.NewGameService(store, dir, scores),
		LevelService:   services.NewLevelService(store, dir),
		SessionService: services.NewGameSessionService(store, bank, services.NewQuestionPicker(store, bank, rnd), scores, rnd),
		ScoreService:   services.NewScoreService(store, dir, scores),
		DefaultLang:    "en",
	}
	return &testServer{t: t, handler: srv.Routes()}
}

func (ts *testServer) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-User-ID", userID)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	body := decode[struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}](t, rec)
	return body.Error.Code
}

func seedPlayableGame(t *testing.T, sqlDB *sql.DB) (int64, []int64) {
	game := models.NewGame("api")
	game.QuestionShuffleAnswers = false
	gameID, levelIDs := testutil.SeedGame(t, sqlDB, game, testutil.LadderLevel{Score: 100}, testutil.LadderLevel{Score: 500, SafeSpot: true})
	for i, levelID := range levelIDs {
		category := int64(i + 1)
		testutil.SeedBankQuestion(t, sqlDB, category, category, "hint text", 1, 0, 0, 0)
		testutil.MustExec(t, sqlDB, `INSERT INTO categories (level, mdl_category, subcategories) VALUES (?, ?, 0)`, levelID, category)
	}
	return gameID, levelIDs
}

func TestHealth(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)

	rec := ts.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = ts.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingUserHeader(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)

	rec := ts.do(http.MethodGet, "/api/games", nil, "X-User-ID", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, rec))
}

func TestGetGameLocalized(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)
	gameID, _ := seedPlayableGame(t, sqlDB)

	rec := ts.do(http.MethodGet, fmt.Sprintf("/api/games/%d", gameID), nil, "Accept-Language", "de-CH, en;q=0.5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "de", rec.Header().Get("Content-Language"))
	view := decode[models.GameView](t, rec)
	assert.Equal(t, 2, view.ActiveLevels)
	assert.False(t, view.Manager)
	assert.NotEmpty(t, view.Strings)

	rec = ts.do(http.MethodGet, "/api/games/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = ts.do(http.MethodGet, "/api/games/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayThroughLadder(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)
	gameID, levelIDs := seedPlayableGame(t, sqlDB)

	rec := ts.do(http.MethodPost, fmt.Sprintf("/api/games/%d/session", gameID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := decode[models.SessionView](t, rec)
	assert.Equal(t, models.SessionStateProgress, session.State)
	assert.Equal(t, "0 €", session.ScoreName)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/sessions/%d/questions/0", session.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	question := decode[models.QuestionView](t, rec)
	assert.Equal(t, []int64{10, 11, 12, 13}, question.AnswerOrder)
	assert.Equal(t, "Question text", question.Text)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/jokers", session.ID),
		map[string]any{"question_id": question.ID, "joker_type": "hint"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	joker := decode[models.JokerView](t, rec)
	assert.Equal(t, "hint text", joker.Data)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/jokers", session.ID),
		map[string]any{"question_id": question.ID, "joker_type": "hint"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_USED", errorCode(t, rec))

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/answers", session.ID),
		map[string]any{"level_id": levelIDs[0], "question_id": question.ID, "answer_id": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answered := decode[models.QuestionView](t, rec)
	assert.True(t, answered.Correct)
	assert.Equal(t, 100, answered.Score)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/answers", session.ID),
		map[string]any{"level_id": levelIDs[0], "question_id": question.ID, "answer_id": 11})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INCONSISTENT_INPUT", errorCode(t, rec))

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/games/%d/levels?session=%d", gameID, session.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	levels := decode[[]models.LevelView](t, rec)
	require.Len(t, levels, 2)
	assert.True(t, levels[0].Correct)
	assert.False(t, levels[1].Seen)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/sessions/%d/close", session.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decode[models.SessionView](t, rec)
	assert.True(t, closed.Won)
	assert.Equal(t, "100 €", closed.ScoreName)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/games/%d/scores", gameID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]models.ScoreRow](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, 100, rows[0].Score)
	assert.Equal(t, 1, rows[0].Rank)
}

func TestSessionOfAnotherUser(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)
	gameID, _ := seedPlayableGame(t, sqlDB)

	rec := ts.do(http.MethodPost, fmt.Sprintf("/api/games/%d/sessions", gameID), nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[models.SessionView](t, rec)

	rec = ts.do(http.MethodGet, fmt.Sprintf("/api/sessions/%d", session.ID), nil, "X-User-ID", "8")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REFERENCE", errorCode(t, rec))
}

func TestAdminRequiresCapability(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	ts := newTestServer(t, sqlDB)
	gameID, _ := seedPlayableGame(t, sqlDB)

	rec := ts.do(http.MethodPost, fmt.Sprintf("/api/games/%d/levels", gameID), map[string]any{"score": 1000})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	testutil.MustExec(t, sqlDB, `INSERT INTO users (id, name) VALUES (7, 'teacher')`)
	testutil.MustExec(t, sqlDB, `INSERT INTO user_capabilities (user, game, capability) VALUES (7, 0, 'manage')`)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/games/%d/levels", gameID), map[string]any{"score": 1000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	level := decode[models.Level](t, rec)
	assert.Equal(t, 2, level.Position)

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/levels/%d/move", level.ID), map[string]any{"delta": -1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"moved": true}, decode[map[string]bool](t, rec))

	rec = ts.do(http.MethodPost, fmt.Sprintf("/api/games/%d/reset-progress", gameID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
