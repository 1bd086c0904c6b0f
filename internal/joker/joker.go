// Package joker generates lifeline content for a question. Each joker type is one
// generator; Generate dispatches on the type.
package joker

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/vytor/millionaire/internal/models"
)

// Rand is the randomness a generator needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// ErrUnsupported is returned for questions without exactly one full-credit answer.
var ErrUnsupported = errors.New("question must have exactly one full-credit answer")

type input struct {
	question        models.BankQuestion
	correct         models.BankAnswer
	wrongIDs        []int64 // zero-credit answers, shuffled
	rnd             Rand
	hintUnavailable string
}

var generators = map[models.JokerType]func(input) string{
	models.JokerEliminate: eliminate,
	models.JokerAudience:  audience,
	models.JokerHint:      hint,
}

// Generate returns the content of a joker of type t for question. hintUnavailable is the
// text used when the question has no general feedback.
func Generate(t models.JokerType, question models.BankQuestion, rnd Rand, hintUnavailable string) (string, error) {
	gen, ok := generators[t]
	if !ok {
		return "", fmt.Errorf("unknown joker type %q", t)
	}
	correct, ok := question.CorrectAnswer()
	if !ok {
		return "", ErrUnsupported
	}

	zero := question.ZeroCreditAnswers()
	wrongIDs := make([]int64, len(zero))
	for i, a := range zero {
		wrongIDs[i] = a.ID
	}
	rnd.Shuffle(len(wrongIDs), func(i, j int) { wrongIDs[i], wrongIDs[j] = wrongIDs[j], wrongIDs[i] })

	return gen(input{
		question:        question,
		correct:         correct,
		wrongIDs:        wrongIDs,
		rnd:             rnd,
		hintUnavailable: hintUnavailable,
	}), nil
}

// eliminate picks at most two wrong answers to remove.
func eliminate(in input) string {
	wrongIDs := in.wrongIDs
	if len(wrongIDs) > 2 {
		wrongIDs = wrongIDs[:2]
	}
	return models.JoinIDs(wrongIDs)
}

// audience splits 100 percent between the answers, correct answer first.
func audience(in input) string {
	if len(in.wrongIDs) == 0 {
		return formatShare(in.correct.ID, 100)
	}

	correctShare := 40 + in.rnd.Intn(95-40+1)
	parts := []string{formatShare(in.correct.ID, correctShare)}
	remaining := 100 - correctShare
	for i, id := range in.wrongIDs {
		share := remaining
		if i < len(in.wrongIDs)-1 {
			share = in.rnd.Intn(min(remaining, correctShare+3) + 1)
			remaining -= share
		}
		parts = append(parts, formatShare(id, share))
	}
	return strings.Join(parts, ",")
}

func hint(in input) string {
	if strings.TrimSpace(in.question.GeneralFeedback) == "" {
		return in.hintUnavailable
	}
	return in.question.GeneralFeedback
}

func formatShare(id int64, pct int) string {
	return strconv.FormatInt(id, 10) + "=" + strconv.Itoa(pct)
}

// ParseAudience reads audience joker data back into answer id to percentage.
func ParseAudience(data string) (map[int64]int, error) {
	out := make(map[int64]int)
	if data == "" {
		return out, nil
	}
	for _, pair := range strings.Split(data, ",") {
		id, pct, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed audience share %q", pair)
		}
		answerID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, err
		}
		share, err := strconv.Atoi(pct)
		if err != nil {
			return nil, err
		}
		out[answerID] = share
	}
	return out, nil
}

type globalRand struct{}

func (globalRand) Intn(n int) int                     { return rand.Intn(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Default draws from the process-wide math/rand source, which is safe for concurrent use.
var Default Rand = globalRand{}
