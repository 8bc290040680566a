package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PlanB-Network/content-to-pdf/internal/cache"
	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

const professorsCacheKey = "professors"

// ProfessorNames resolves ids against professors/<slug>/professor.yml.
// The id to name index is built once per cache TTL.
func (c *Client) ProfessorNames(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	byID, err := c.professors(ctx)
	if err != nil {
		return nil, err
	}
	return source.NamesFor(ids, byID), nil
}

func (c *Client) professors(ctx context.Context) (map[string]string, error) {
	if byID, ok := cache.GetJSON[map[string]string](ctx, c.cache, professorsCacheKey); ok {
		return byID, nil
	}

	slugs, err := c.subdirs(ctx, "professors")
	if errors.Is(err, source.ErrNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing professors: %w", err)
	}

	byID := make(map[string]string, len(slugs))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, slug := range slugs {
		g.Go(func() error {
			body, err := c.getFile(gctx, path.Join("professors", slug, "professor.yml"))
			if err != nil {
				c.log.Debug("professor unavailable", "slug", slug, "error", err)
				return nil
			}
			id, name, err := source.ParseProfessor(body)
			if err != nil || id == "" || name == "" {
				return nil
			}
			mu.Lock()
			byID[id] = name
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, c.cache, professorsCacheKey, byID); err != nil {
		c.log.Warn("caching professors", "error", err)
	}
	return byID, nil
}

// TutorialsMeta reads the frontmatter of each linked tutorial in lang,
// falling back to English.
func (c *Client) TutorialsMeta(ctx context.Context, urls []string, lang string) map[string]source.TutorialMeta {
	return collect(ctx, urls, func(ctx context.Context, u string) (source.TutorialMeta, bool) {
		dir := source.TutorialDir(u)
		if dir == "" {
			return source.TutorialMeta{}, false
		}
		md, ok := c.localized(ctx, dir, lang)
		if !ok {
			return source.TutorialMeta{}, false
		}
		return source.TutorialMetaFrom(md, c.rawURL(path.Join(dir, "assets", "logo.webp")))
	})
}

// CoursesMeta reads the frontmatter of each linked course in lang,
// falling back to English.
func (c *Client) CoursesMeta(ctx context.Context, urls []string, lang string) map[string]source.CourseMeta {
	return collect(ctx, urls, func(ctx context.Context, u string) (source.CourseMeta, bool) {
		code := coursemd.CourseCode(u)
		if source.Validate(code, "") != nil {
			return source.CourseMeta{}, false
		}
		dir := path.Join("courses", code)
		md, ok := c.localized(ctx, dir, lang)
		if !ok {
			return source.CourseMeta{}, false
		}
		return source.CourseMetaFrom(code, md, c.rawURL(path.Join(dir, "assets", "thumbnail.webp")))
	})
}

// localized fetches <dir>/<lang>.md, or <dir>/en.md when it is missing.
func (c *Client) localized(ctx context.Context, dir, lang string) (string, bool) {
	body, err := c.getFile(ctx, path.Join(dir, lang+".md"))
	if errors.Is(err, source.ErrNotFound) && lang != "en" {
		body, err = c.getFile(ctx, path.Join(dir, "en.md"))
	}
	if err != nil {
		c.log.Debug("metadata unavailable", "dir", dir, "lang", lang, "error", err)
		return "", false
	}
	return string(body), true
}
