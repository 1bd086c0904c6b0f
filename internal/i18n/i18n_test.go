package i18n_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/millionaire/internal/i18n"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: "en"},
		{header: "de-DE,de;q=0.9,en;q=0.8", want: "de"},
		{header: "de-AT", want: "de"},
		{header: "en-GB,en;q=0.9", want: "en"},
		{header: "ja", want: "en"},
		{header: "fr;q=0.9,de;q=0.5", want: "de"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Negotiate(tt.header, "en"))
		})
	}
}

func TestT(t *testing.T) {
	assert.Equal(t, "Leider verloren.", i18n.T("de", i18n.KeyLost))
	assert.Equal(t, "Question 3: 500 €", i18n.T("en", i18n.KeyQuestionHeadline, 3, "500 €"))
	assert.Equal(t, "Sorry, you lost.", i18n.T("xx", i18n.KeyLost))
	assert.Equal(t, "nope", i18n.T("en", "nope"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	en, de := i18n.All("en"), i18n.All("de")
	for k := range en {
		assert.Contains(t, de, k)
	}
	assert.Len(t, de, len(en))
}

func TestContext(t *testing.T) {
	assert.Equal(t, "en", i18n.FromContext(context.Background()))
	assert.Equal(t, "de", i18n.FromContext(i18n.NewContext(context.Background(), "de")))
}
