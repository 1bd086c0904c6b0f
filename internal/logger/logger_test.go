package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/logger"
)

func TestTextOutput_SortedFieldsAndLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false), logger.WithLevel(logger.INFO))

	log.Debug("hidden")
	log.WithFields(map[string]any{"zeta": 1, "alpha": "a"}).WithPrefix("session").Info("answer scored: %d", 20)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[session]")
	assert.Contains(t, out, "answer scored: 20")
	assert.Less(t, strings.Index(out, "alpha=a"), strings.Index(out, "zeta=1"))
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithJSON(true))

	log.WithField("session_id", 7).Warn("joker rejected")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "joker rejected", entry["msg"])
	assert.EqualValues(t, 7, entry["session_id"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	ctx := logger.NewContext(context.Background(), log.WithField("request_id", "abc"))

	logger.FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Equal(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("WARNING"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
}
