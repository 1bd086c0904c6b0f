// Package i18n holds the player-facing strings in every supported language.
package i18n

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

const (
	KeyHintUnavailable   = "joker_hint_unavailable"
	KeyHintTitle         = "joker_hint_title"
	KeyAudienceTitle     = "joker_audience_title"
	KeyWon               = "game_won"
	KeyLost              = "game_lost"
	KeyFinalScore        = "game_final_score"
	KeyQuestionHeadline  = "game_question_headline"
	KeyQTypeUnsupported  = "game_qtype_unsupported"
	KeyButtonStart       = "button_start"
	KeyButtonRestart     = "button_restart"
	KeyButtonContinue    = "button_continue"
	KeyButtonQuit        = "button_quit"
	KeyButtonLeaderboard = "button_leaderboard"
	KeyLeaderboardEmpty  = "leaderboard_empty"
	KeyLeaderboardRank   = "leaderboard_rank"
	KeyLeaderboardUser   = "leaderboard_user"
	KeyLeaderboardScore  = "leaderboard_score"
	KeyLeaderboardTries  = "leaderboard_sessions"
)

var catalog = map[string]map[string]string{
	"en": {
		KeyHintUnavailable:   "Unfortunately there is no hint available for this question.",
		KeyHintTitle:         "Hint:",
		KeyAudienceTitle:     "Audience lifeline:",
		KeyWon:               "You won!",
		KeyLost:              "Sorry, you lost.",
		KeyFinalScore:        "You reached a score of %s",
		KeyQuestionHeadline:  "Question %d: %s",
		KeyQTypeUnsupported:  "The question type »%s« is not supported.",
		KeyButtonStart:       "Start Game",
		KeyButtonRestart:     "New Game",
		KeyButtonContinue:    "Next Question",
		KeyButtonQuit:        "Quit",
		KeyButtonLeaderboard: "Leader Board",
		KeyLeaderboardEmpty:  "No one is on the leader board, yet.",
		KeyLeaderboardRank:   "Rank",
		KeyLeaderboardUser:   "User",
		KeyLeaderboardScore:  "Score",
		KeyLeaderboardTries:  "Attempts",
	},
	"de": {
		KeyHintUnavailable:   "Leider ist für diese Frage kein Hinweis verfügbar.",
		KeyHintTitle:         "Hinweis:",
		KeyAudienceTitle:     "Publikums-Joker:",
		KeyWon:               "Gewonnen!",
		KeyLost:              "Leider verloren.",
		KeyFinalScore:        "Du hast %s erreicht",
		KeyQuestionHeadline:  "Frage %d: %s",
		KeyQTypeUnsupported:  "Der Fragentyp »%s« wird nicht unterstützt.",
		KeyButtonStart:       "Spiel Starten",
		KeyButtonRestart:     "Neues Spiel",
		KeyButtonContinue:    "Nächste Frage",
		KeyButtonQuit:        "Beenden",
		KeyButtonLeaderboard: "Bestenliste",
		KeyLeaderboardEmpty:  "Es gibt noch keine Einträge in der Bestenliste.",
		KeyLeaderboardRank:   "Platz",
		KeyLeaderboardUser:   "Nutzer",
		KeyLeaderboardScore:  "Punkte",
		KeyLeaderboardTries:  "Versuche",
	},
}

var (
	supported = []language.Tag{language.English, language.German}
	matcher   = language.NewMatcher(supported)
)

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// Negotiate picks the best supported language for an Accept-Language header value.
// fallback is used when the header is empty or unparsable.
func Negotiate(acceptLanguage, fallback string) string {
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	base, _ := supported[idx].Base()
	return base.String()
}

// T returns the string for key in lang, formatted with args. Unknown languages fall back
// to English and unknown keys are returned as is.
func T(lang, key string, args ...any) string {
	strs, ok := catalog[lang]
	if !ok {
		strs = catalog["en"]
	}
	s, ok := strs[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}

// All returns a copy of every string in lang.
func All(lang string) map[string]string {
	strs, ok := catalog[lang]
	if !ok {
		strs = catalog["en"]
	}
	out := make(map[string]string, len(strs))
	for k, v := range strs {
		out[k] = v
	}
	return out
}

type ctxKey struct{}

// NewContext stores the negotiated language in ctx.
func NewContext(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the language stored in ctx, or English.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok {
		return lang
	}
	return "en"
}
