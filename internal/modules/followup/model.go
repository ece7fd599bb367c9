// README: Clarification dialog for requests too vague to plan (type C).
package followup

import (
	"errors"
	"strings"
)

// Question identifies one clarification prompt.
type Question string

const (
	QuestionDestination Question = "destination"
	QuestionDuration    Question = "duration"
)

// questionOrder is the fixed order in which questions are asked.
var questionOrder = []Question{QuestionDestination, QuestionDuration}

var prompts = map[Question]string{
	QuestionDestination: "想去哪裡玩呢？",
	QuestionDuration:    "預計玩幾天？",
}

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrEmptyAnswer     = errors.New("answer is empty")
	ErrIncomplete      = errors.New("dialog is not complete")
	ErrSessionNotFound = errors.New("followup session not found")
)

// Prompt returns the user-facing text for q.
func (q Question) Prompt() string { return prompts[q] }

// State is an immutable dialog snapshot; Answer returns a new State.
type State struct {
	Current   *Question           `json:"current"`
	Questions []Question          `json:"questions"`
	Answers   map[Question]string `json:"answers"`
}

func NewState() State {
	qs := append([]Question(nil), questionOrder...)
	first := qs[0]
	return State{Current: &first, Questions: qs, Answers: map[Question]string{}}
}

// Answer records answer for q and advances Current to the next unanswered
// question, or nil when none is left. s itself is not modified.
func Answer(s State, q Question, answer string) (State, error) {
	if !s.asks(q) {
		return s, ErrUnknownQuestion
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return s, ErrEmptyAnswer
	}

	next := State{
		Questions: append([]Question(nil), s.Questions...),
		Answers:   make(map[Question]string, len(s.Answers)+1),
	}
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.Answers[q] = answer

	for _, candidate := range next.Questions {
		if _, ok := next.Answers[candidate]; !ok {
			c := candidate
			next.Current = &c
			break
		}
	}
	return next, nil
}

// IsComplete reports whether every question has an answer.
func (s State) IsComplete() bool {
	for _, q := range s.Questions {
		if _, ok := s.Answers[q]; !ok {
			return false
		}
	}
	return len(s.Questions) > 0
}

func (s State) asks(q Question) bool {
	for _, known := range s.Questions {
		if known == q {
			return true
		}
	}
	return false
}
