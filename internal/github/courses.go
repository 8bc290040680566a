package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PlanB-Network/content-to-pdf/internal/cache"
	"github.com/PlanB-Network/content-to-pdf/internal/i18n"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
	"github.com/PlanB-Network/content-to-pdf/internal/yamlutil"
)

const (
	coursesCacheKey   = "courses"
	languagesCacheKey = "languages:"
)

// ListCourses lists the course directories with the level and topic of
// their course.yml. A course.yml that cannot be read leaves both empty.
func (c *Client) ListCourses(ctx context.Context) ([]source.CourseInfo, error) {
	if courses, ok := cache.GetJSON[[]source.CourseInfo](ctx, c.cache, coursesCacheKey); ok {
		return courses, nil
	}

	codes, err := c.subdirs(ctx, "courses")
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	courses := make([]source.CourseInfo, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, code := range codes {
		courses[i] = source.CourseInfo{Code: code, Languages: []string{}}
		g.Go(func() error {
			level, topic := c.courseLevelTopic(gctx, code)
			courses[i].Level = level
			courses[i].Topic = topic
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source.SortCourses(courses)
	if err := cache.SetJSON(ctx, c.cache, coursesCacheKey, courses); err != nil {
		c.log.Warn("caching course list", "error", err)
	}
	return courses, nil
}

func (c *Client) courseLevelTopic(ctx context.Context, code string) (string, string) {
	body, err := c.getFile(ctx, path.Join("courses", code, "course.yml"))
	if err != nil {
		c.log.Debug("course.yml unavailable", "code", code, "error", err)
		return "", ""
	}
	var meta struct {
		Level string `yaml:"level"`
		Topic string `yaml:"topic"`
	}
	if err := yamlutil.Unmarshal(body, &meta); err != nil {
		c.log.Debug("course.yml unreadable", "code", code, "error", err)
		return "", ""
	}
	return meta.Level, meta.Topic
}

// ListLanguages returns the languages a course is written in, sorted.
// An unknown course has no languages.
func (c *Client) ListLanguages(ctx context.Context, code string) ([]string, error) {
	if err := source.Validate(code, ""); err != nil {
		return nil, err
	}
	key := languagesCacheKey + code
	if langs, ok := cache.GetJSON[[]string](ctx, c.cache, key); ok {
		return langs, nil
	}

	entries, err := c.listDir(ctx, path.Join("courses", code))
	if errors.Is(err, source.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing languages of %s: %w", code, err)
	}

	langs := []string{}
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		if lang, ok := source.LanguageFromFile(e.Name); ok {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)

	if err := cache.SetJSON(ctx, c.cache, key, langs); err != nil {
		c.log.Warn("caching languages", "code", code, "error", err)
	}
	return langs, nil
}

func (c *Client) CourseMarkdown(ctx context.Context, code, lang string) (string, error) {
	if err := source.Validate(code, lang); err != nil {
		return "", err
	}
	body, err := c.getFile(ctx, path.Join("courses", code, lang+".md"))
	if err != nil {
		return "", fmt.Errorf("course markdown %s/%s: %w", code, lang, err)
	}
	return string(body), nil
}

func (c *Client) CourseYAML(ctx context.Context, code string) (*source.CourseYAML, error) {
	if err := source.Validate(code, ""); err != nil {
		return nil, err
	}
	body, err := c.getFile(ctx, path.Join("courses", code, "course.yml"))
	if err != nil {
		return nil, fmt.Errorf("course yaml %s: %w", code, err)
	}
	return source.ParseCourseYAML(body)
}

func (c *Client) TeacherGuide(_ context.Context, code, lang string) (string, error) {
	if err := source.Validate(code, lang); err != nil {
		return "", err
	}
	if c.guides == nil {
		return "", fmt.Errorf("teacher guide %s/%s: %w", code, lang, source.ErrNotFound)
	}
	body, err := fs.ReadFile(c.guides, code+"-"+lang+".md")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("teacher guide %s/%s: %w", code, lang, source.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("teacher guide %s/%s: %w", code, lang, err)
	}
	return string(body), nil
}

// Locale fetches the platform translations of lang. A missing locale
// file yields nil.
func (c *Client) Locale(ctx context.Context, lang string) (i18n.Translations, error) {
	if err := source.Validate("locale", lang); err != nil {
		return nil, err
	}
	body, err := c.get(ctx, c.localesBase+"/"+lang+".json", false)
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locale %s: %w", lang, err)
	}
	return i18n.Parse(body)
}

type commitEntry struct {
	Commit struct {
		Committer struct {
			Date string `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
}

// Version returns the date of the last commit touching the course file.
func (c *Client) Version(ctx context.Context, code, lang string) string {
	if source.Validate(code, lang) != nil {
		return ""
	}
	p := path.Join("courses", code, lang+".md")
	u := c.apiBase + "/repos/" + c.owner + "/" + c.repo + "/commits?path=" + url.QueryEscape(p) +
		"&sha=" + url.QueryEscape(c.branch) + "&per_page=1"

	body, err := c.get(ctx, u, true)
	if err != nil {
		c.log.Debug("last commit unavailable", "path", p, "error", err)
		return ""
	}
	var commits []commitEntry
	if err := json.Unmarshal(body, &commits); err != nil || len(commits) == 0 {
		return ""
	}
	date := commits[0].Commit.Committer.Date
	if len(date) < 10 {
		return ""
	}
	return date[:10]
}

// ImageURL resolves a relative image reference to its raw URL. References
// under assets/ are taken as course-relative; bare file names are looked up
// in the language asset folder.
func (c *Client) ImageURL(code, ref, lang string) string {
	cleaned := strings.TrimPrefix(ref, "./")
	if strings.HasPrefix(cleaned, "assets/") {
		return c.rawURL(path.Join("courses", code, cleaned))
	}
	return c.rawURL(path.Join("courses", code, "assets", lang, cleaned))
}

// collect runs fn for every item with bounded concurrency.
func collect[T any](ctx context.Context, items []string, fn func(ctx context.Context, item string) (T, bool)) map[string]T {
	out := make(map[string]T, len(items))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for _, item := range items {
		g.Go(func() error {
			v, ok := fn(gctx, item)
			if !ok {
				return nil
			}
			mu.Lock()
			out[item] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
