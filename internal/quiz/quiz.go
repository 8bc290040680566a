// Package quiz holds course quiz questions and prepares them for print:
// random subsets, shuffled choices and the answer key.
package quiz

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
)

// Question is one multiple-choice question in the document language.
type Question struct {
	Index         int
	ChapterID     string
	Question      string
	CorrectAnswer string
	WrongAnswers  []string
	Explanation   string
	Difficulty    string
}

// Complete reports whether q has a prompt, an answer and wrong answers.
func (q Question) Complete() bool {
	return q.Question != "" && q.CorrectAnswer != "" && len(q.WrongAnswers) > 0
}

// Choice is one lettered answer.
type Choice struct {
	Letter string
	Text   string
}

// Shuffled is a question with its answers in print order.
type Shuffled struct {
	Index         int
	Question      string
	Choices       []Choice
	CorrectLetter string
	Explanation   string
}

// CorrectText returns the text of the correct choice.
func (s Shuffled) CorrectText() string {
	for _, c := range s.Choices {
		if c.Letter == s.CorrectLetter {
			return c.Text
		}
	}
	return ""
}

var letters = []string{"A", "B", "C", "D"}

// Letter labels choice i (zero-based): A to D, then the 1-based number.
func Letter(i int) string {
	if i >= 0 && i < len(letters) {
		return letters[i]
	}
	return strconv.Itoa(i + 1)
}

// Shuffler randomizes questions. Safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler creates a Shuffler drawing from src. A nil src uses a
// randomly seeded source.
func NewShuffler(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Shuffler{rng: rand.New(src)}
}

// Subset returns count questions picked at random. When count is not
// positive or not below len(questions), all questions are returned in
// their original order.
func (s *Shuffler) Subset(questions []Question, count int) []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	if count <= 0 || count >= len(out) {
		return out
	}

	s.mu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.mu.Unlock()

	return out[:count]
}

// Shuffle numbers questions from 1 and shuffles the correct answer in
// among the wrong ones.
func (s *Shuffler) Shuffle(questions []Question) []Shuffled {
	out := make([]Shuffled, 0, len(questions))

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, q := range questions {
		answers := make([]string, 0, len(q.WrongAnswers)+1)
		answers = append(answers, q.CorrectAnswer)
		answers = append(answers, q.WrongAnswers...)
		s.rng.Shuffle(len(answers), func(a, b int) { answers[a], answers[b] = answers[b], answers[a] })

		sq := Shuffled{
			Index:         i + 1,
			Question:      q.Question,
			Choices:       make([]Choice, len(answers)),
			CorrectLetter: "?",
			Explanation:   strings.TrimSpace(q.Explanation),
		}
		for j, text := range answers {
			sq.Choices[j] = Choice{Letter: Letter(j), Text: text}
			if sq.CorrectLetter == "?" && text == q.CorrectAnswer {
				sq.CorrectLetter = sq.Choices[j].Letter
			}
		}
		out = append(out, sq)
	}
	return out
}
