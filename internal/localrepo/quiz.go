package localrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// QuizQuestions reads courses/<code>/quizz/<dir>/question.yml with its
// <lang>.yml translation, or en.yml when the language has none. Directories
// are visited in name order; unreadable or incomplete questions are skipped.
func (r *Repo) QuizQuestions(ctx context.Context, code, lang string) ([]quiz.Question, error) {
	if err := source.Validate(code, lang); err != nil {
		return nil, err
	}
	root := filepath.Join(r.courseDir(code), "quizz")
	dirs, err := subdirs(root)
	if err != nil {
		return nil, err
	}

	var questions []quiz.Question
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q, err := readQuestion(filepath.Join(root, dir), lang)
		if err != nil {
			r.log.Debug("skipping quiz question", "dir", dir, "error", err)
			continue
		}
		questions = append(questions, q)
	}
	return source.NumberQuestions(questions), nil
}

func readQuestion(dir, lang string) (quiz.Question, error) {
	q, err := os.ReadFile(filepath.Join(dir, "question.yml"))
	if err != nil {
		return quiz.Question{}, err
	}
	tr, err := readFile(filepath.Join(dir, lang+".yml"))
	if errors.Is(err, source.ErrNotFound) && lang != "en" {
		tr, err = readFile(filepath.Join(dir, "en.yml"))
	}
	if err != nil {
		return quiz.Question{}, err
	}
	return source.ParseQuestion(q, tr)
}
