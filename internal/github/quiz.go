package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// QuizQuestions reads courses/<code>/quizz/<dir>/question.yml with its
// <lang>.yml translation, or en.yml when the language has none. Questions
// that cannot be read or are incomplete are skipped.
func (c *Client) QuizQuestions(ctx context.Context, code, lang string) ([]quiz.Question, error) {
	if err := source.Validate(code, lang); err != nil {
		return nil, err
	}
	root := path.Join("courses", code, "quizz")
	dirs, err := c.subdirs(ctx, root)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing quiz of %s: %w", code, err)
	}
	sort.Strings(dirs)

	results := make([]quiz.Question, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, dir := range dirs {
		g.Go(func() error {
			q, err := c.question(gctx, path.Join(root, dir), lang)
			if err != nil {
				c.log.Debug("skipping quiz question", "dir", dir, "error", err)
				return nil
			}
			results[i] = q
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return source.NumberQuestions(results), nil
}

func (c *Client) question(ctx context.Context, dir, lang string) (quiz.Question, error) {
	q, err := c.getFile(ctx, path.Join(dir, "question.yml"))
	if err != nil {
		return quiz.Question{}, err
	}
	tr, err := c.getFile(ctx, path.Join(dir, lang+".yml"))
	if errors.Is(err, source.ErrNotFound) && lang != "en" {
		tr, err = c.getFile(ctx, path.Join(dir, "en.yml"))
	}
	if err != nil {
		return quiz.Question{}, err
	}
	return source.ParseQuestion(q, tr)
}
