package source

import (
	"fmt"

	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

type questionFile struct {
	ID         string `yaml:"id"`
	ChapterID  string `yaml:"chapterId"`
	Difficulty string `yaml:"difficulty"`
}

type translationFile struct {
	Question     string   `yaml:"question"`
	Answer       string   `yaml:"answer"`
	WrongAnswers []string `yaml:"wrong_answers"`
	Explanation  string   `yaml:"explanation"`
}

// ParseQuestion combines a question.yml and its translation file.
// The question is returned even when incomplete; callers check Complete.
func ParseQuestion(questionYAML, translationYAML []byte) (quiz.Question, error) {
	var q questionFile
	if err := yamlutil.Unmarshal(questionYAML, &q); err != nil {
		return quiz.Question{}, fmt.Errorf("question.yml: %w", err)
	}
	var tr translationFile
	if err := yamlutil.Unmarshal(translationYAML, &tr); err != nil {
		return quiz.Question{}, fmt.Errorf("translation: %w", err)
	}

	difficulty := q.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	return quiz.Question{
		ChapterID:     q.ChapterID,
		Question:      tr.Question,
		CorrectAnswer: tr.Answer,
		WrongAnswers:  tr.WrongAnswers,
		Explanation:   tr.Explanation,
		Difficulty:    difficulty,
	}, nil
}

// NumberQuestions keeps complete questions and numbers them from 1.
func NumberQuestions(qs []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, 0, len(qs))
	for _, q := range qs {
		if !q.Complete() {
			continue
		}
		q.Index = len(out) + 1
		out = append(out, q)
	}
	return out
}
