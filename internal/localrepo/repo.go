// Package localrepo reads course content from local checkouts of the
// educational content repository and of the platform locales. The CLI uses
// it; images and logos are inlined as data URIs so the generated HTML does
// not depend on the checkout location.
package localrepo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PlanB-Network/content-to-pdf/internal/coursemd"
	"github.com/PlanB-Network/content-to-pdf/internal/i18n"
	"github.com/PlanB-Network/content-to-pdf/internal/logger"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// LogoPath is the platform logo inside the content checkout.
const LogoPath = "docs/PBN-template-repo/courses/topic101/assets/no-txt/PBN-logo.webp"

// ErrCheckoutNotFound indicates a content path that is not a directory.
var ErrCheckoutNotFound = errors.New("content checkout not found")

var mimeTypes = map[string]string{
	".webp": "image/webp",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

var langAssetDir = regexp.MustCompile(`assets/\w+/`)

// RevisionFunc returns the short revision of the checkout at dir.
type RevisionFunc func(ctx context.Context, dir string) (string, error)

// Repo implements source.Source over local directories.
type Repo struct {
	becPath     string
	localesPath string
	guidesPath  string
	log         *logger.Logger
	now         func() time.Time
	revision    RevisionFunc

	professors func() (map[string]string, error)
}

var _ source.Source = (*Repo)(nil)

// Option configures a Repo.
type Option func(*Repo)

// WithLocalesPath sets the directory holding <lang>.json locale files.
func WithLocalesPath(p string) Option {
	return func(r *Repo) { r.localesPath = p }
}

// WithGuidesPath sets the directory holding <code>-<lang>.md teacher guides.
func WithGuidesPath(p string) Option {
	return func(r *Repo) { r.guidesPath = p }
}

// WithLogger sets the logger for skipped files.
func WithLogger(l *logger.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock replaces time.Now in version strings.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRevision replaces the git lookup of the checkout revision.
func WithRevision(fn RevisionFunc) Option {
	return func(r *Repo) {
		if fn != nil {
			r.revision = fn
		}
	}
}

// New opens the content checkout at becPath.
func New(becPath string, opts ...Option) (*Repo, error) {
	info, err := os.Stat(becPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCheckoutNotFound, becPath)
	}
	r := &Repo{
		becPath:  becPath,
		log:      logger.Nop(),
		now:      time.Now,
		revision: gitRevision,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.professors = sync.OnceValues(r.loadProfessors)
	return r, nil
}

func (r *Repo) courseDir(code string) string {
	return filepath.Join(r.becPath, "courses", strings.ToLower(code))
}

// readFile maps a missing file to source.ErrNotFound.
func readFile(p string) ([]byte, error) {
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", source.ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

func (r *Repo) CourseMarkdown(_ context.Context, code, lang string) (string, error) {
	if err := source.Validate(code, lang); err != nil {
		return "", err
	}
	data, err := readFile(filepath.Join(r.courseDir(code), lang+".md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Repo) CourseYAML(_ context.Context, code string) (*source.CourseYAML, error) {
	if err := source.Validate(code, ""); err != nil {
		return nil, err
	}
	data, err := readFile(filepath.Join(r.courseDir(code), "course.yml"))
	if err != nil {
		return nil, err
	}
	return source.ParseCourseYAML(data)
}

func (r *Repo) TeacherGuide(_ context.Context, code, lang string) (string, error) {
	if err := source.Validate(code, lang); err != nil {
		return "", err
	}
	if r.guidesPath == "" {
		return "", fmt.Errorf("teacher guide %s/%s: %w", code, lang, source.ErrNotFound)
	}
	data, err := readFile(filepath.Join(r.guidesPath, strings.ToLower(code)+"-"+lang+".md"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Locale reads <localesPath>/<lang>.json. A missing file or an unset
// locales path yields nil.
func (r *Repo) Locale(_ context.Context, lang string) (i18n.Translations, error) {
	if err := source.Validate("locale", lang); err != nil {
		return nil, err
	}
	if r.localesPath == "" {
		return nil, nil
	}
	data, err := readFile(filepath.Join(r.localesPath, lang+".json"))
	if errors.Is(err, source.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i18n.Parse(data)
}

// Version returns "<short hash> | <YYYY-MM-DD>", with "unknown" when the
// checkout is not a git work tree.
func (r *Repo) Version(ctx context.Context, _, _ string) string {
	rev, err := r.revision(ctx, r.becPath)
	if err != nil || rev == "" {
		r.log.Debug("git revision unavailable", "path", r.becPath, "error", err)
		rev = "unknown"
	}
	return rev + " | " + r.now().Format(time.DateOnly)
}

func gitRevision(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ImageURL inlines the first existing candidate for ref as a data URI.
// Candidates are tried in order: the course directory, the language asset
// folder, the shared asset folder, then ref with its asset language
// replaced by lang. An unresolved ref is returned unchanged.
func (r *Repo) ImageURL(code, ref, lang string) string {
	if source.Validate(code, lang) != nil {
		return ref
	}
	dir := r.courseDir(code)
	cleaned := strings.TrimPrefix(ref, "./")
	candidates := []string{
		filepath.Join(dir, cleaned),
		filepath.Join(dir, "assets", lang, cleaned),
		filepath.Join(dir, "assets", cleaned),
		filepath.Join(dir, langAssetDir.ReplaceAllString(cleaned, "assets/"+lang+"/")),
	}
	for _, c := range candidates {
		if !within(dir, c) {
			continue
		}
		if uri, ok := dataURI(c); ok {
			return uri
		}
	}
	return ref
}

// Logo returns the platform logo as a data URI, or "" when the checkout
// does not carry it.
func (r *Repo) Logo() string {
	uri, _ := dataURI(filepath.Join(r.becPath, filepath.FromSlash(LogoPath)))
	return uri
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func dataURI(p string) (string, bool) {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	mime, ok := mimeTypes[strings.ToLower(filepath.Ext(p))]
	if !ok {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

// subdirs returns the sorted directory names under p, or nil when p does
// not exist.
func subdirs(p string) ([]string, error) {
	entries, err := os.ReadDir(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", p, err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// TutorialsMeta reads the frontmatter of each linked tutorial.
func (r *Repo) TutorialsMeta(_ context.Context, urls []string, lang string) map[string]source.TutorialMeta {
	out := make(map[string]source.TutorialMeta, len(urls))
	for _, u := range urls {
		dir := source.TutorialDir(u)
		if dir == "" {
			continue
		}
		abs := filepath.Join(r.becPath, filepath.FromSlash(dir))
		if !within(filepath.Join(r.becPath, "tutorials"), abs) {
			continue
		}
		md, ok := r.localized(abs, lang)
		if !ok {
			continue
		}
		logo, _ := dataURI(filepath.Join(abs, "assets", "logo.webp"))
		if meta, ok := source.TutorialMetaFrom(md, logo); ok {
			out[u] = meta
		}
	}
	return out
}

// CoursesMeta reads the frontmatter of each linked course.
func (r *Repo) CoursesMeta(_ context.Context, urls []string, lang string) map[string]source.CourseMeta {
	out := make(map[string]source.CourseMeta, len(urls))
	for _, u := range urls {
		code := coursemd.CourseCode(u)
		if source.Validate(code, "") != nil {
			continue
		}
		dir := r.courseDir(code)
		md, ok := r.localized(dir, lang)
		if !ok {
			continue
		}
		thumb, _ := dataURI(filepath.Join(dir, "assets", "thumbnail.webp"))
		if meta, ok := source.CourseMetaFrom(code, md, thumb); ok {
			out[u] = meta
		}
	}
	return out
}

func (r *Repo) localized(dir, lang string) (string, bool) {
	for _, l := range []string{lang, "en"} {
		data, err := os.ReadFile(filepath.Join(dir, l+".md"))
		if err == nil {
			return string(data), true
		}
	}
	r.log.Debug("metadata unavailable", "dir", dir, "lang", lang)
	return "", false
}

// ProfessorNames resolves ids against professors/<slug>/professor.yml. The
// index is read once per Repo.
func (r *Repo) ProfessorNames(_ context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	byID, err := r.professors()
	if err != nil {
		return nil, err
	}
	return source.NamesFor(ids, byID), nil
}

func (r *Repo) loadProfessors() (map[string]string, error) {
	root := filepath.Join(r.becPath, "professors")
	slugs, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(slugs))
	for _, slug := range slugs {
		data, err := os.ReadFile(filepath.Join(root, slug, "professor.yml"))
		if err != nil {
			continue
		}
		id, name, err := source.ParseProfessor(data)
		if err != nil {
			r.log.Debug("professor unreadable", "slug", slug, "error", err)
			continue
		}
		if id != "" && name != "" {
			byID[id] = name
		}
	}
	return byID, nil
}
