package models

// BankCategory is a node of the host question bank's category tree.
type BankCategory struct {
	ID       int64  `json:"id" yaml:"id"`
	ParentID int64  `json:"parent" yaml:"parent"`
	Name     string `json:"name" yaml:"name"`
}

type BankAnswer struct {
	ID       int64   `json:"id" yaml:"id"`
	Text     string  `json:"answer" yaml:"text"`
	Feedback string  `json:"feedback" yaml:"feedback"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

type BankQuestion struct {
	ID              int64        `json:"id" yaml:"id"`
	CategoryID      int64        `json:"category" yaml:"category"`
	QType           string       `json:"qtype" yaml:"qtype"`
	Name            string       `json:"name" yaml:"name"`
	Text            string       `json:"questiontext" yaml:"text"`
	GeneralFeedback string       `json:"generalfeedback" yaml:"general_feedback"`
	Answers         []BankAnswer `json:"answers" yaml:"answers"`
}

// FullCreditAnswers returns the answers worth the full question score.
func (q BankQuestion) FullCreditAnswers() []BankAnswer {
	var out []BankAnswer
	for _, a := range q.Answers {
		if a.Fraction >= 1 {
			out = append(out, a)
		}
	}
	return out
}

// ZeroCreditAnswers returns the answers worth nothing.
func (q BankQuestion) ZeroCreditAnswers() []BankAnswer {
	var out []BankAnswer
	for _, a := range q.Answers {
		if a.Fraction == 0 {
			out = append(out, a)
		}
	}
	return out
}

// CorrectAnswer returns the single full-credit answer. ok is false unless exactly one exists.
func (q BankQuestion) CorrectAnswer() (answer BankAnswer, ok bool) {
	full := q.FullCreditAnswers()
	if len(full) != 1 {
		return BankAnswer{}, false
	}
	return full[0], true
}

// AnswerIDs returns the answer ids in bank order.
func (q BankQuestion) AnswerIDs() []int64 {
	ids := make([]int64, len(q.Answers))
	for i, a := range q.Answers {
		ids[i] = a.ID
	}
	return ids
}

func (q BankQuestion) Answer(id int64) (BankAnswer, bool) {
	for _, a := range q.Answers {
		if a.ID == id {
			return a, true
		}
	}
	return BankAnswer{}, false
}
