// Package source defines how course content is fetched. The GitHub client
// (web service) and the local checkout reader (CLI) both implement Source.
package source

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/i18n"
	"github.com/PlanB-Network/content-to-pdf/internal/quiz"
)

var (
	// ErrNotFound indicates the requested file does not exist in the source.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName indicates a course code or language that cannot name
	// a repository path.
	ErrInvalidName = errors.New("invalid course code or language")
)

type (
	TutorialMeta = coursemd.TutorialMeta
	CourseMeta   = coursemd.CourseMeta
)

// Source reads course content and the metadata around it.
type Source interface {
	// CourseMarkdown returns courses/<code>/<lang>.md.
	CourseMarkdown(ctx context.Context, code, lang string) (string, error)
	// CourseYAML returns the decoded courses/<code>/course.yml.
	CourseYAML(ctx context.Context, code string) (*CourseYAML, error)
	// TeacherGuide returns the ready-to-teach guide of a course.
	TeacherGuide(ctx context.Context, code, lang string) (string, error)
	// QuizQuestions returns the complete questions of a course, in
	// directory order. Empty when the course has no quiz.
	QuizQuestions(ctx context.Context, code, lang string) ([]quiz.Question, error)
	// Locale returns the platform translations of lang, or nil when the
	// locale does not exist.
	Locale(ctx context.Context, lang string) (i18n.Translations, error)
	// ProfessorNames resolves professor ids to display names. Unknown ids
	// are skipped.
	ProfessorNames(ctx context.Context, ids []string) ([]string, error)
	// TutorialsMeta resolves tutorial URLs. URLs that fail are absent.
	TutorialsMeta(ctx context.Context, urls []string, lang string) map[string]TutorialMeta
	// CoursesMeta resolves course URLs. URLs that fail are absent.
	CoursesMeta(ctx context.Context, urls []string, lang string) map[string]CourseMeta
	// Version describes the content revision, or "" when unknown.
	Version(ctx context.Context, code, lang string) string
	// ImageURL turns a relative image reference into a loadable URL.
	ImageURL(code, ref, lang string) string
}

// Lister enumerates courses for the web front end.
type Lister interface {
	ListCourses(ctx context.Context) ([]CourseInfo, error)
	ListLanguages(ctx context.Context, code string) ([]string, error)
}

// CourseInfo is one entry of the course list.
type CourseInfo struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Level     string   `json:"level"`
	Topic     string   `json:"topic"`
	Languages []string `json:"languages"`
}

var (
	codeParts    = regexp.MustCompile(`^([a-zA-Z-]+?)(\d+)$`)
	languageFile = regexp.MustCompile(`^([a-z]{2}(?:-[A-Za-z]+)?)\.md$`)
	validCode    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	validLang    = regexp.MustCompile(`^[a-z]{2}(?:-[A-Za-z]+)?$`)
)

// Validate checks that code and lang are safe path segments. An empty
// lang is accepted for calls that take only a code.
func Validate(code, lang string) error {
	if !validCode.MatchString(code) {
		return fmt.Errorf("%w: code %q", ErrInvalidName, code)
	}
	if lang != "" && !validLang.MatchString(lang) {
		return fmt.Errorf("%w: lang %q", ErrInvalidName, lang)
	}
	return nil
}

// SortCourses orders courses by letter prefix, then numerically, so that
// btc102 comes before btc1000.
func SortCourses(courses []CourseInfo) {
	sort.SliceStable(courses, func(i, j int) bool {
		pi, ni := splitCode(courses[i].Code)
		pj, nj := splitCode(courses[j].Code)
		if pi != pj {
			return pi < pj
		}
		return ni < nj
	})
}

func splitCode(code string) (string, int) {
	m := codeParts.FindStringSubmatch(code)
	if m == nil {
		return code, 0
	}
	n, _ := strconv.Atoi(m[2])
	return m[1], n
}

// LanguageFromFile returns the language of a course file name such as
// "fr.md" or "zh-Hans.md".
func LanguageFromFile(name string) (string, bool) {
	m := languageFile.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CourseURL is the platform page of a course, or of one of its chapters.
func CourseURL(lang, courseID, chapterID string) string {
	u := "https://planb.academy/" + lang + "/courses/" + courseID
	if chapterID != "" {
		u += "/" + chapterID
	}
	return u
}
